package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeedDirectAndNestedKeys(t *testing.T) {
	rec := Chantier{
		ID:        "8",
		Name:      "Tour Horizon",
		Code:      "CH-08",
		Client:    ClientRef{ID: "3", Name: "SARL Horizon"},
		StartDate: "2026-02-01",
		Status:    "active",
		Responsible: []EmployeeRef{
			{ID: "11", FullName: "A. Diallo"},
			{ID: "14", FullName: "M. Sow"},
		},
	}
	values := Seed(rec, Chantiers().Form)

	assert.Equal(t, "Tour Horizon", values["name"])
	assert.Equal(t, "CH-08", values["code"])
	assert.Equal(t, "3", values["client_id"], "xxx_id resolves the embedded object")
	assert.Equal(t, "2026-02-01", values["start_date"])
	assert.Equal(t, "11,14", values["responsible_ids"], "xxx_ids joins embedded list ids")
}

func TestSeedSecretAlwaysBlank(t *testing.T) {
	rec := Admin{ID: "2", FullName: "Chef Admin", Email: "chef@tourtra.example"}
	values := Seed(rec, Admins().Form)
	assert.Equal(t, "Chef Admin", values["full_name"])
	pw, ok := values["password"]
	assert.True(t, ok)
	assert.Empty(t, pw)
}

func TestSeedMissingKeysBlank(t *testing.T) {
	values := Seed(Department{ID: "1", Name: "HR"}, []FormField{
		{Key: "name", Kind: Text},
		{Key: "unknown_field", Kind: Text},
	})
	assert.Equal(t, "HR", values["name"])
	assert.Empty(t, values["unknown_field"])
}
