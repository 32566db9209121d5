package dbclient

import "testing"

func TestBuildPostgresDSNDefaults(t *testing.T) {
	conn := &Connection{Host: "localhost", Username: "u", Database: "db"}
	got := buildPostgresDSN(conn, "pw")
	want := "host=localhost port=5432 user=u password=pw dbname=db sslmode=disable"
	if got != want {
		t.Fatalf("dsn = %s", got)
	}
}

func TestBuildMySQLDSN(t *testing.T) {
	conn := &Connection{Host: "db.example.com", Port: 3307, Username: "u", Database: "db", SSLMode: "require"}
	got := buildMySQLDSN(conn, "pw")
	want := "u:pw@tcp(db.example.com:3307)/db?parseTime=true&charset=utf8mb4&tls=true"
	if got != want {
		t.Fatalf("dsn = %s", got)
	}
}

func TestIsReadQuery(t *testing.T) {
	reads := []string{"SELECT 1", "  with x as (select 1) select * from x", "EXPLAIN SELECT 1", "pragma table_info('t')"}
	for _, q := range reads {
		if !isReadQuery(q) {
			t.Errorf("isReadQuery(%q) = false", q)
		}
	}
	writes := []string{"INSERT INTO t VALUES (1)", "update t set a=1", "DROP TABLE t"}
	for _, q := range writes {
		if isReadQuery(q) {
			t.Errorf("isReadQuery(%q) = true", q)
		}
	}
}

func TestDBNameFromURI(t *testing.T) {
	cases := map[string]string{
		"mongodb+srv://u:p@cluster.example.net/movies?retryWrites=true": "movies",
		"mongodb://localhost:27017":                                     "",
		"mongodb://u:p@host:27017/inventory":                            "inventory",
	}
	for uri, want := range cases {
		if got := dbNameFromURI(uri); got != want {
			t.Errorf("dbNameFromURI(%q) = %q, want %q", uri, got, want)
		}
	}
}

func TestNewConnectorUnknownDriver(t *testing.T) {
	if _, err := NewConnector(&Connection{Driver: "oracle"}, ""); err == nil {
		t.Fatal("expected an error")
	}
}
