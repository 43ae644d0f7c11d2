package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT id FROM users",
			want:  "SELECT id FROM users",
		},
		{
			name:  "single placeholder",
			query: "SELECT id FROM users WHERE email = ?",
			want:  "SELECT id FROM users WHERE email = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO images (file_name, is_real, difficulty) VALUES (?, ?, ?)",
			want:  "INSERT INTO images (file_name, is_real, difficulty) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectProperties(t *testing.T) {
	tests := []struct {
		name            string
		dialect         Dialect
		wantDriver      string
		wantLastInsert  bool
		wantRandom      string
		wantMigrations  string
		wantQueryChange bool
	}{
		{
			name:           "sqlite",
			dialect:        NewSQLiteDialect(),
			wantDriver:     "sqlite3",
			wantLastInsert: true,
			wantRandom:     "RANDOM()",
			wantMigrations: "sqlite",
		},
		{
			name:            "postgres",
			dialect:         NewPostgresDialect(),
			wantDriver:      "postgres",
			wantLastInsert:  false,
			wantRandom:      "RANDOM()",
			wantMigrations:  "postgres",
			wantQueryChange: true,
		},
		{
			name:           "mysql",
			dialect:        NewMySQLDialect(),
			wantDriver:     "mysql",
			wantLastInsert: true,
			wantRandom:     "RAND()",
			wantMigrations: "mysql",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dialect.DriverName(); got != tt.wantDriver {
				t.Errorf("DriverName() = %q, want %q", got, tt.wantDriver)
			}
			if got := tt.dialect.SupportsLastInsertId(); got != tt.wantLastInsert {
				t.Errorf("SupportsLastInsertId() = %v, want %v", got, tt.wantLastInsert)
			}
			if got := tt.dialect.RandomOrderClause(); got != tt.wantRandom {
				t.Errorf("RandomOrderClause() = %q, want %q", got, tt.wantRandom)
			}
			if got := tt.dialect.MigrationsSubdir(); got != tt.wantMigrations {
				t.Errorf("MigrationsSubdir() = %q, want %q", got, tt.wantMigrations)
			}

			query := "SELECT id FROM users WHERE email = ?"
			rewritten := tt.dialect.RewriteQuery(query)
			if changed := rewritten != query; changed != tt.wantQueryChange {
				t.Errorf("RewriteQuery() = %q, changed = %v, want changed %v", rewritten, changed, tt.wantQueryChange)
			}
		})
	}
}
