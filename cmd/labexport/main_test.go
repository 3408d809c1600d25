package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptDate(t *testing.T) {
	t.Run("returns trimmed input", func(t *testing.T) {
		var out bytes.Buffer
		got := promptDate(strings.NewReader("  15-03-2024 \n"), &out)
		assert.Equal(t, "15-03-2024", got)
		assert.Contains(t, out.String(), "Report date")
	})

	t.Run("empty input selects current date downstream", func(t *testing.T) {
		var out bytes.Buffer
		assert.Equal(t, "", promptDate(strings.NewReader("\n"), &out))
	})

	t.Run("closed input yields empty", func(t *testing.T) {
		var out bytes.Buffer
		assert.Equal(t, "", promptDate(strings.NewReader(""), &out))
	})
}
