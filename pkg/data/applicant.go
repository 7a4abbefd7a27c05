package data

import (
	"database/sql"

	"github.com/pkg/errors"
)

const (
	insertApplicantSQL = `INSERT INTO applicant (
			age, gender, marital, children, employer, position, property, has_car, city, purpose, repaid
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectApplicantSQL = `SELECT
			id, age, gender, marital, children, employer, position, property, has_car, city, purpose, repaid
		FROM applicant
		ORDER BY id
	`

	countApplicantSQL = `SELECT COUNT(*) FROM applicant`

	deleteApplicantSQL = `DELETE FROM applicant`
)

// Applicant is one loan application record. Identity beyond the db
// row id is not tracked; the record is immutable once constructed.
type Applicant struct {
	ID       int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Age      int    `json:"age" yaml:"age"`
	Gender   string `json:"gender" yaml:"gender"`
	Marital  string `json:"marital" yaml:"marital"`
	Children int    `json:"children" yaml:"children"`
	Employer string `json:"employer" yaml:"employer"`
	Position string `json:"position" yaml:"position"`
	Property string `json:"property" yaml:"property"`
	HasCar   bool   `json:"has_car" yaml:"has_car"`
	City     string `json:"city" yaml:"city"`
	Purpose  string `json:"purpose" yaml:"purpose"`
	// Repaid is the binary label; -1 when unknown (prediction input).
	Repaid int `json:"repaid" yaml:"repaid"`
}

// SaveApplicants inserts the given records.
func SaveApplicants(db *sql.DB, list []Applicant) error {
	if db == nil {
		return errDBNotInitialized
	}

	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	stmt, err := tx.Prepare(insertApplicantSQL)
	if err != nil {
		tx.Rollback()
		return errors.Wrap(err, "failed to prepare applicant insert")
	}
	defer stmt.Close()

	for _, a := range list {
		car := 0
		if a.HasCar {
			car = 1
		}
		if _, err := stmt.Exec(
			a.Age, a.Gender, a.Marital, a.Children, a.Employer,
			a.Position, a.Property, car, a.City, a.Purpose, a.Repaid,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "failed to insert applicant")
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit applicants")
}

// ListApplicants returns all stored records in insertion order.
func ListApplicants(db *sql.DB) ([]Applicant, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectApplicantSQL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query applicants")
	}
	defer rows.Close()

	list := make([]Applicant, 0)
	for rows.Next() {
		var a Applicant
		var car int
		if err := rows.Scan(
			&a.ID, &a.Age, &a.Gender, &a.Marital, &a.Children, &a.Employer,
			&a.Position, &a.Property, &car, &a.City, &a.Purpose, &a.Repaid,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan applicant row")
		}
		a.HasCar = car != 0
		list = append(list, a)
	}
	return list, errors.Wrap(rows.Err(), "failed to iterate applicants")
}

// CountApplicants returns the number of stored records.
func CountApplicants(db *sql.DB) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	var n int
	if err := db.QueryRow(countApplicantSQL).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "failed to count applicants")
	}
	return n, nil
}

// ClearApplicants removes all stored records.
func ClearApplicants(db *sql.DB) error {
	if db == nil {
		return errDBNotInitialized
	}
	_, err := db.Exec(deleteApplicantSQL)
	return errors.Wrap(err, "failed to clear applicants")
}
