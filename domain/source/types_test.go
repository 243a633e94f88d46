package source

import "testing"

func TestDataSourceValidate(t *testing.T) {
	ds := NewDataSource("orders db", DriverMySQL, "user:pass@tcp(localhost:3306)/orders")
	if err := ds.Validate(); err != nil {
		t.Errorf("valid data source rejected: %v", err)
	}
	if ds.ID == "" || !ds.Enabled || ds.CreatedAt.IsZero() {
		t.Errorf("NewDataSource left fields unset: %+v", ds)
	}

	cases := []struct {
		name string
		ds   DataSource
	}{
		{"empty name", DataSource{Driver: DriverMySQL, DSN: "dsn"}},
		{"blank name", DataSource{Name: "  ", Driver: DriverMySQL, DSN: "dsn"}},
		{"empty dsn", DataSource{Name: "x", Driver: DriverPostgres}},
		{"bad driver", DataSource{Name: "x", Driver: "sqlite", DSN: "dsn"}},
	}
	for _, tc := range cases {
		if err := tc.ds.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
