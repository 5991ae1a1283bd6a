package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextEmployeeCode(t *testing.T) {
	cases := []struct {
		name string
		last string
		want string
	}{
		{"no previous code", "", "EMP2026001"},
		{"previous year", "EMP2025042", "EMP2026001"},
		{"foreign prefix", "STAFF-17", "EMP2026001"},
		{"next in sequence", "EMP2026001", "EMP2026002"},
		{"carries into fourth digit", "EMP2026999", "EMP20261000"},
		{"keeps wider padding", "EMP202600041", "EMP202600042"},
		{"duplicated year is stripped", "EMP20262026002", "EMP2026003"},
		{"non numeric sequence", "EMP2026abc", "EMP2026001"},
		{"empty sequence", "EMP2026", "EMP2026001"},
		{"trailing garbage after digits", "EMP202607x", "EMP2026008"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, NextEmployeeCode(c.last, 2026))
		})
	}
}
