package data

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// LoadCSV reads applicant records from a headered CSV file. The
// repaid column is optional; records without it carry -1 (unknown
// label) and are usable for prediction only.
func LoadCSV(path string) ([]Applicant, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening csv file: %s", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "error reading csv file: %s", path)
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("csv file %s has no data rows", path)
	}

	col := map[string]int{}
	for i, name := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	required := []string{"age", "gender", "marital", "children", "employer", "position", "property", "has_car", "city", "purpose"}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, errors.Errorf("csv file %s missing column: %s", path, name)
		}
	}

	list := make([]Applicant, 0, len(rows)-1)
	for i, row := range rows[1:] {
		a := Applicant{Repaid: -1}
		if a.Age, err = strconv.Atoi(strings.TrimSpace(row[col["age"]])); err != nil {
			return nil, errors.Wrapf(err, "row %d: invalid age", i+1)
		}
		a.Gender = strings.TrimSpace(row[col["gender"]])
		a.Marital = strings.TrimSpace(row[col["marital"]])
		if a.Children, err = strconv.Atoi(strings.TrimSpace(row[col["children"]])); err != nil {
			return nil, errors.Wrapf(err, "row %d: invalid children count", i+1)
		}
		a.Employer = strings.TrimSpace(row[col["employer"]])
		a.Position = strings.TrimSpace(row[col["position"]])
		a.Property = strings.TrimSpace(row[col["property"]])
		a.HasCar = parseBool(row[col["has_car"]])
		a.City = strings.TrimSpace(row[col["city"]])
		a.Purpose = strings.TrimSpace(row[col["purpose"]])
		if j, ok := col["repaid"]; ok {
			if a.Repaid, err = strconv.Atoi(strings.TrimSpace(row[j])); err != nil {
				return nil, errors.Wrapf(err, "row %d: invalid repaid label", i+1)
			}
		}
		list = append(list, a)
	}
	return list, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
