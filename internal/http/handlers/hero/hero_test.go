package hero_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/aanand-mishra/hero-api/internal/config"
	"github.com/aanand-mishra/hero-api/internal/http/handlers/hero"
	"github.com/aanand-mishra/hero-api/internal/storage/sqlite"
	"github.com/aanand-mishra/hero-api/internal/types"
	"github.com/aanand-mishra/hero-api/internal/utils/response"
)

// newTestServer wires the three hero routes to a fresh sqlite-backed
// storage, exactly as main.go does, and returns an httptest server.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Env: "dev",
		Storage: config.Storage{
			Driver: "sqlite3",
			Path:   filepath.Join(t.TempDir(), "heroes_test.db"),
		},
	}

	store, err := sqlite.New(cfg)
	if err != nil {
		t.Fatalf("sqlite.New() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	router := http.NewServeMux()
	router.HandleFunc("POST /heroes/{$}", hero.Create(store))
	router.HandleFunc("GET /heroes/{$}", hero.GetList(store))
	router.HandleFunc("GET /heroes/{hero_id}", hero.GetByID(store))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

// createHero POSTs the given body and decodes the created record.
func createHero(t *testing.T, srv *httptest.Server, body string) types.Hero {
	t.Helper()

	resp, err := http.Post(srv.URL+"/heroes/", "application/json",
		strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /heroes/ failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /heroes/ status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var created types.Hero
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decoding create response failed: %v", err)
	}
	return created
}

func getJSON(t *testing.T, srv *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding GET %s response failed: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestCreate_ReturnsRecordWithAssignedID(t *testing.T) {
	srv := newTestServer(t)

	created := createHero(t, srv, `{"name": "Astra", "age": 30}`)

	if created.ID <= 0 {
		t.Errorf("ID = %d, want > 0", created.ID)
	}
	if created.Name != "Astra" {
		t.Errorf("Name = %q, want %q", created.Name, "Astra")
	}
	if created.Age == nil || *created.Age != 30 {
		t.Errorf("Age = %v, want 30", created.Age)
	}
}

func TestCreate_OptionalAgeComesBackNull(t *testing.T) {
	srv := newTestServer(t)

	created := createHero(t, srv, `{"name": "Bolt"}`)
	if created.Age != nil {
		t.Errorf("Age = %v, want nil", *created.Age)
	}

	// The stored row must agree with the create response.
	var fetched types.Hero
	status := getJSON(t, srv, "/heroes/"+strconv.FormatInt(created.ID, 10), &fetched)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if fetched.Age != nil {
		t.Errorf("fetched Age = %v, want nil", *fetched.Age)
	}
}

func TestCreate_ClientSentIDIsIgnored(t *testing.T) {
	srv := newTestServer(t)

	created := createHero(t, srv, `{"id": 777, "name": "Astra", "age": 30}`)
	if created.ID == 777 {
		t.Error("client-supplied id must not be honoured")
	}
	if created.ID <= 0 {
		t.Errorf("ID = %d, want a storage-assigned id", created.ID)
	}
}

func TestCreate_IDsStrictlyIncrease(t *testing.T) {
	srv := newTestServer(t)

	first := createHero(t, srv, `{"name": "Astra", "age": 30}`)
	second := createHero(t, srv, `{"name": "Bolt", "age": 25}`)

	if second.ID <= first.ID {
		t.Errorf("ids not strictly increasing: %d then %d", first.ID, second.ID)
	}
}

func TestCreate_RejectsBadBodies(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"name": `},
		{"wrong type for age", `{"name": "Astra", "age": "thirty"}`},
		{"missing name", `{"age": 30}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/heroes/", "application/json",
				strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("POST failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want %d",
					resp.StatusCode, http.StatusUnprocessableEntity)
			}

			var envelope response.Response
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				t.Fatalf("decoding error envelope failed: %v", err)
			}
			if envelope.Status != response.StatusError {
				t.Errorf("envelope status = %q, want %q",
					envelope.Status, response.StatusError)
			}
			if envelope.Error == "" {
				t.Error("error envelope has no detail")
			}
		})
	}
}

func TestGetByID_ReturnsCreatedRecord(t *testing.T) {
	srv := newTestServer(t)

	created := createHero(t, srv, `{"name": "Astra", "age": 30}`)

	var fetched types.Hero
	status := getJSON(t, srv, "/heroes/"+strconv.FormatInt(created.ID, 10), &fetched)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	// Field-by-field: Age is a pointer, so struct equality would
	// compare addresses rather than values.
	if fetched.ID != created.ID || fetched.Name != created.Name {
		t.Errorf("fetched %+v, want %+v", fetched, created)
	}
	if fetched.Age == nil || created.Age == nil || *fetched.Age != *created.Age {
		t.Errorf("fetched Age %v, want %v", fetched.Age, created.Age)
	}
}

func TestGetByID_UnknownIDIs404(t *testing.T) {
	srv := newTestServer(t)

	var envelope response.Response
	status := getJSON(t, srv, "/heroes/9999", &envelope)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", status, http.StatusNotFound)
	}
	if envelope.Error != "hero not found" {
		t.Errorf("error = %q, want %q", envelope.Error, "hero not found")
	}
}

func TestGetByID_NonIntegerIDRejected(t *testing.T) {
	srv := newTestServer(t)

	status := getJSON(t, srv, "/heroes/abc", nil)
	if status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", status, http.StatusUnprocessableEntity)
	}
}

func TestGetList_NoFilterReturnsEverything(t *testing.T) {
	srv := newTestServer(t)

	createHero(t, srv, `{"name": "Astra", "age": 30}`)
	createHero(t, srv, `{"name": "Bolt", "age": 25}`)

	var heroes []types.Hero
	status := getJSON(t, srv, "/heroes/", &heroes)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if len(heroes) != 2 {
		t.Errorf("got %d heroes, want 2", len(heroes))
	}
}

func TestGetList_EmptyDatabaseReturnsEmptyArray(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/heroes/")
	if err != nil {
		t.Fatalf("GET /heroes/ failed: %v", err)
	}
	defer resp.Body.Close()

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	// The body must be a JSON array, never null.
	if strings.TrimSpace(string(raw)) == "null" {
		t.Error("empty list encoded as null, want []")
	}
}

func TestGetList_NameFilter(t *testing.T) {
	srv := newTestServer(t)

	createHero(t, srv, `{"name": "Astra", "age": 30}`)
	createHero(t, srv, `{"name": "Bolt", "age": 25}`)

	var heroes []types.Hero
	status := getJSON(t, srv, "/heroes/?name=Astra", &heroes)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if len(heroes) != 1 {
		t.Fatalf("got %d heroes, want 1", len(heroes))
	}
	if heroes[0].Name != "Astra" {
		t.Errorf("Name = %q, want %q", heroes[0].Name, "Astra")
	}
}

func TestGetList_BothFiltersAND(t *testing.T) {
	srv := newTestServer(t)

	createHero(t, srv, `{"name": "Astra", "age": 30}`)
	createHero(t, srv, `{"name": "Astra", "age": 40}`)
	createHero(t, srv, `{"name": "Bolt", "age": 30}`)

	var heroes []types.Hero
	status := getJSON(t, srv, "/heroes/?name=Astra&age=30", &heroes)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if len(heroes) != 1 {
		t.Fatalf("got %d heroes, want 1", len(heroes))
	}
	if heroes[0].Age == nil || *heroes[0].Age != 30 || heroes[0].Name != "Astra" {
		t.Errorf("got %+v, want Astra aged 30", heroes[0])
	}
}

// age=0 in the query string is a real filter: it must select zero-age
// heroes rather than being dropped as a "falsy" value.
func TestGetList_ZeroAgeFilterIsHonoured(t *testing.T) {
	srv := newTestServer(t)

	createHero(t, srv, `{"name": "Newborn", "age": 0}`)
	createHero(t, srv, `{"name": "Astra", "age": 30}`)

	var heroes []types.Hero
	status := getJSON(t, srv, "/heroes/?age=0", &heroes)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if len(heroes) != 1 {
		t.Fatalf("got %d heroes, want 1 — age=0 must not disable the filter", len(heroes))
	}
	if heroes[0].Name != "Newborn" {
		t.Errorf("Name = %q, want %q", heroes[0].Name, "Newborn")
	}
}

func TestGetList_NonIntegerAgeRejected(t *testing.T) {
	srv := newTestServer(t)

	status := getJSON(t, srv, "/heroes/?age=old", nil)
	if status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", status, http.StatusUnprocessableEntity)
	}
}

func TestGetList_SeesNewlyCreatedHeroes(t *testing.T) {
	srv := newTestServer(t)

	var before []types.Hero
	getJSON(t, srv, "/heroes/", &before)

	createHero(t, srv, `{"name": "Astra", "age": 30}`)

	var after []types.Hero
	getJSON(t, srv, "/heroes/", &after)

	if len(after) != len(before)+1 {
		t.Errorf("list grew from %d to %d, want +1", len(before), len(after))
	}
}
