package pipeline

import "math/rand"

// Split partitions rows into train and test with a seeded shuffle.
// The test size is the floor of len(rows)*fraction, so the 12-row
// sample at 0.2 yields 2 test rows for any seed.
func Split(rows []Row, fraction float64, seed int64) (train, test []Row) {
	if fraction <= 0 {
		return rows, nil
	}
	if fraction >= 1 {
		return nil, rows
	}

	rng := rand.New(rand.NewSource(seed))
	idx := rng.Perm(len(rows))

	nTest := int(float64(len(rows)) * fraction)
	test = make([]Row, 0, nTest)
	train = make([]Row, 0, len(rows)-nTest)
	for i, j := range idx {
		if i < nTest {
			test = append(test, rows[j])
			continue
		}
		train = append(train, rows[j])
	}
	return train, test
}
