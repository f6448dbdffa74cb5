// Package hero contains all HTTP handlers related to the Hero resource.
//
// HANDLER PATTERN USED HERE — THE CLOSURE / FACTORY PATTERN:
// ────────────────────────────────────────────────────────────
// Go's router expects handler functions with the signature:
//
//	func(http.ResponseWriter, *http.Request)
//
// That signature has no room for extra parameters like a database.
// To inject dependencies we use a factory function that:
//  1. Accepts dependencies (the storage backend)
//  2. Returns a function with the exact signature the router needs
//
// Because the inner function "closes over" the outer parameters, it can
// access `store` even after the factory call has returned.
// Example:
//
//	router.HandleFunc("POST /heroes/", hero.Create(storage))
//	//                                 ^^^^^^^^^^^^^^^^^^^^
//	//                     Create(storage) is called ONCE at startup.
//	//                     It returns a handler func which is called
//	//                     on EVERY incoming request.
package hero

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/hero-api/internal/storage"
	"github.com/aanand-mishra/hero-api/internal/types"
	"github.com/aanand-mishra/hero-api/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /heroes/
// Creates a new hero from the JSON request body.
//
// Request body (JSON):
//
//	{ "name": "Astra", "age": 30 }        age is optional
//
// Success response (200 OK) — the stored record with its assigned id:
//
//	{ "id": 1, "name": "Astra", "age": 30 }
//
// Error responses:
//
//	422 Unprocessable Entity — empty body, malformed JSON, wrong field
//	                           types, or missing name
//	500 Internal             — database error
//
// Any "id" the client sends in the body is ignored: storage always
// assigns the identifier.
// ─────────────────────────────────────────────────────────────────────────────
func Create(store storage.Storage) http.HandlerFunc {
	// This is the factory function. It runs ONCE when the route is registered.
	// It captures `store` in the closure below.

	return func(w http.ResponseWriter, r *http.Request) {
		// Structured log: every request gets an Info log so we can trace
		// activity in production logs.
		slog.Info("creating a hero")

		// ── Step 1: Decode JSON body into a Hero struct ───────────────
		var hero types.Hero

		// json.NewDecoder reads from r.Body (the raw bytes sent by the client).
		// .Decode(&hero) populates the hero variable via its pointer.
		// Fields in the JSON are matched to struct fields using json:"..." tags.
		err := json.NewDecoder(r.Body).Decode(&hero)

		if errors.Is(err, io.EOF) {
			// io.EOF means the body was completely empty — nothing to decode.
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(errors.New("request body is empty")))
			return // stop further processing
		}

		if err != nil {
			// Any other decode error: malformed JSON, wrong types, etc.
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(err))
			return
		}

		// ── Step 2: Validate the decoded struct ───────────────────────
		// validator.New().Struct(v) checks all validate:"..." tags on v.
		// It returns nil if everything is valid, or a ValidationErrors
		// (which implements the error interface) if any rule fails.
		if err := validator.New().Struct(hero); err != nil {
			// Type-assert the error to ValidationErrors so we can inspect
			// each individual field error (field name, broken tag, etc.).
			validateErrs := err.(validator.ValidationErrors)
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.ValidationError(validateErrs))
			return
		}

		// ── Step 3: Persist to database ───────────────────────────────
		// We call the Storage interface method — not a backend directly.
		// This keeps the handler database-agnostic. Note that only name
		// and age are passed: a client-supplied id never reaches storage.
		lastID, err := store.CreateHero(hero.Name, hero.Age)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		slog.Info("hero created", slog.Int64("id", lastID))

		// ── Step 4: Return the full record with its new id ────────────
		hero.ID = lastID
		response.WriteJSON(w, http.StatusOK, hero)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /heroes/
// Returns a JSON array of heroes, optionally filtered by exact match.
//
// Query parameters (both optional, combined with AND when both given):
//
//	name — exact string match
//	age  — exact integer match
//
// Success response (200 OK):
//
//	[
//	  { "id": 1, "name": "Astra", "age": 30 },
//	  { "id": 2, "name": "Bolt",  "age": null }
//	]
//
// Returns an empty array [] (not null) when nothing matches.
//
// Error responses:
//
//	422 Unprocessable Entity — age present but not an integer
//	500 Internal             — database error
//
// A filter is active if and only if its parameter is PRESENT in the
// URL. In particular ?age=0 filters for zero-age heroes — presence is
// what matters, not whether the value is zero.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting heroes")

		query := r.URL.Query()

		var filter storage.HeroFilter

		// query.Has distinguishes "?name=" (present, empty) from the
		// parameter being absent entirely. Only presence activates a
		// filter.
		if query.Has("name") {
			name := query.Get("name")
			filter.Name = &name
		}

		if query.Has("age") {
			age, err := strconv.Atoi(query.Get("age"))
			if err != nil {
				response.WriteJSON(w, http.StatusUnprocessableEntity,
					response.GeneralError(
						errors.New("query parameter age must be an integer")))
				return
			}
			filter.Age = &age
		}

		heroes, err := store.GetHeroes(filter)
		if err != nil {
			slog.Error("error getting heroes", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, heroes)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /heroes/{hero_id}
// Fetches a single hero by primary key.
//
// Path parameter: {hero_id} — must be a valid integer
//
// Success response (200 OK):
//
//	{ "id": 1, "name": "Astra", "age": 30 }
//
// Error responses:
//
//	422 Unprocessable Entity — hero_id is not a valid integer
//	404 Not Found            — no hero with that id
//	500 Internal             — database error
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.PathValue("hero_id") extracts the {hero_id} segment from the
		// URL. This works because Go 1.22+ supports named path parameters
		// in the ServeMux pattern: "GET /heroes/{hero_id}"
		id := r.PathValue("hero_id")
		slog.Info("getting a hero", slog.String("id", id))

		// The URL gives us a string; the database needs int64.
		// strconv.ParseInt(s, base, bitSize) converts string → int64.
		// base 10 = decimal, bitSize 64 = int64.
		intID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			// The client sent something like "/heroes/abc"
			response.WriteJSON(w, http.StatusUnprocessableEntity,
				response.GeneralError(errors.New("invalid id: must be an integer")))
			return
		}

		hero, err := store.GetHeroByID(intID)
		if err != nil {
			// Not-found is a client error, not a server fault, so it is
			// detected via the sentinel and mapped to 404 with a fixed
			// message. Everything else is a genuine storage failure.
			if errors.Is(err, storage.ErrHeroNotFound) {
				response.WriteJSON(w, http.StatusNotFound,
					response.GeneralError(storage.ErrHeroNotFound))
				return
			}

			slog.Error("error getting hero",
				slog.String("id", id),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError,
				response.GeneralError(err))
			return
		}

		response.WriteJSON(w, http.StatusOK, hero)
	}
}
