package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharacterClasses(t *testing.T) {
	testData := []struct {
		b               byte
		digit           bool
		identifierStart bool
		identifierPart  bool
		space           bool
	}{
		{b: '0', digit: true, identifierPart: true},
		{b: '9', digit: true, identifierPart: true},
		{b: 'a', identifierStart: true, identifierPart: true},
		{b: 'Z', identifierStart: true, identifierPart: true},
		{b: '_', identifierPart: true},
		{b: ' ', space: true},
		{b: '\n', space: true},
		{b: '\t', space: true},
		{b: '.'},
		{b: '&'},
	}
	for _, data := range testData {
		assert.Equal(t, data.digit, IsDigit(data.b), "%q", data.b)
		assert.Equal(t, data.identifierStart, IsIdentifierStart(data.b), "%q", data.b)
		assert.Equal(t, data.identifierPart, IsIdentifierPart(data.b), "%q", data.b)
		assert.Equal(t, data.space, IsSpace(data.b), "%q", data.b)
	}
}
