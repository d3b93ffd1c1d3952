package logging

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
}

func TestNew_FormatterAndFile(t *testing.T) {
	logger := New(Options{Level: "error", JSON: true, File: filepath.Join(t.TempDir(), "app.log")})

	assert.Equal(t, logrus.ErrorLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	logger = New(Options{})
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
