package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewApp(t *testing.T) {
	app := newApp()
	assert.NotNil(t, app)
	assert.Equal(t, appName, app.Name)

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"data", "train", "search", "predict"}, names)
}

func TestInitLogging(t *testing.T) {
	// both levels install a handler without panicking
	initLogging(false)
	initLogging(true)
}
