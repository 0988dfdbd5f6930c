package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"employee_id", "EmployeeID", "_hidden", "col1"}
	for _, v := range valid {
		assert.NoError(t, validateIdentifier(v), v)
	}

	invalid := []string{"", "1col", "col-name", "col name", "col;drop table", "col.name"}
	for _, v := range invalid {
		assert.Error(t, validateIdentifier(v), v)
	}
}

func TestValidateIdentifiers(t *testing.T) {
	assert.NoError(t, validateIdentifiers("a", "b", "c"))
	assert.Error(t, validateIdentifiers("a", "bad name", "c"))
}
