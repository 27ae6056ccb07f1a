package metadata

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/RubbaBoy/QilletniMetadata/db"
)

// --- Sqlmock Tests ---
// Verify the rendered Postgres statements, placeholder numbering, and
// parameter binding without a live backend.

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}

	// Schema bootstrap runs inside New
	for i := 0; i < 4; i++ {
		mock.ExpectExec(`CREATE TABLE IF NOT EXISTS`).WillReturnResult(sqlmock.NewResult(0, 0))
	}

	store := New(context.Background(), mockDB, db.FlavorPostgres, nil)
	if !store.IsConnected() {
		t.Fatal("Expected mock store to be connected")
	}

	return store, mock, mockDB
}

func fullChainSong() *Song {
	artist := NewArtist("artist-1")
	album := NewAlbum("album-1", artist)
	return NewSong("song-1", album, artist)
}

func TestAddTag_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO tags (id, tag) VALUES ($1, $2) ON CONFLICT (id, tag) DO NOTHING`)).
		WithArgs("song-1", "rock").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.AddTag(context.Background(), NewSong("song-1", nil, nil), "rock"); err != nil {
		t.Errorf("AddTag() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupTags_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"tag"}).
		AddRow("goated").
		AddRow("rock").
		AddRow("rock")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT tag FROM tags WHERE id IN ($1, $2, $3)`)).
		WithArgs("song-1", "album-1", "artist-1").
		WillReturnRows(rows)

	tags, err := store.LookupTags(context.Background(), fullChainSong(), true)
	if err != nil {
		t.Fatalf("LookupTags() error: %v", err)
	}

	// Duplicates across levels are preserved
	if len(tags) != 3 {
		t.Errorf("LookupTags() = %v, want 3 tags including the duplicate", tags)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestRemoveTag_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	// The tag binds first, chain ids follow
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tags WHERE tag = $1 AND id IN ($2, $3, $4)`)).
		WithArgs("shared", "song-1", "album-1", "artist-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := store.RemoveTag(context.Background(), fullChainSong(), "shared", true); err != nil {
		t.Errorf("RemoveTag() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupDescription_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	query := `SELECT COALESCE((SELECT description FROM descriptions WHERE id = $1), (SELECT description FROM descriptions WHERE id = $2), (SELECT description FROM descriptions WHERE id = $3))`

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("song-1", "album-1", "artist-1").
		WillReturnRows(sqlmock.NewRows([]string{"description"}).AddRow("album notes"))

	description, ok, err := store.LookupDescription(context.Background(), fullChainSong(), true)
	if err != nil {
		t.Fatalf("LookupDescription() error: %v", err)
	}
	if !ok || description != "album notes" {
		t.Errorf("LookupDescription() = (%q, %v), want album notes", description, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupDescription_Sqlmock_Absent(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	// A one-id chain renders the bare sub-select; the missing row scans
	// as SQL NULL, reported as absent
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT (SELECT description FROM descriptions WHERE id = $1)`)).
		WithArgs("song-1").
		WillReturnRows(sqlmock.NewRows([]string{"description"}).AddRow(nil))

	_, ok, err := store.LookupDescription(context.Background(), NewSong("song-1", nil, nil), true)
	if err != nil {
		t.Fatalf("LookupDescription() error: %v", err)
	}
	if ok {
		t.Error("Expected NULL to be reported as absent")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupRating_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	query := `SELECT COALESCE((SELECT rate FROM rates WHERE id = $1), (SELECT rate FROM rates WHERE id = $2))`

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("album-1", "artist-1").
		WillReturnRows(sqlmock.NewRows([]string{"rate"}).AddRow(4.5))

	artist := NewArtist("artist-1")
	rating, ok, err := store.LookupRating(context.Background(), NewAlbum("album-1", artist), true)
	if err != nil {
		t.Fatalf("LookupRating() error: %v", err)
	}
	if !ok || rating != 4.5 {
		t.Errorf("LookupRating() = (%v, %v), want 4.5", rating, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupRating_Sqlmock_Exact(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	// An exact read binds only the object's own id and skips COALESCE
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT (SELECT rate FROM rates WHERE id = $1)`)).
		WithArgs("song-1").
		WillReturnRows(sqlmock.NewRows([]string{"rate"}).AddRow(4.5))

	rating, ok, err := store.LookupRating(context.Background(), fullChainSong(), false)
	if err != nil {
		t.Fatalf("LookupRating() error: %v", err)
	}
	if !ok || rating != 4.5 {
		t.Errorf("LookupRating() = (%v, %v), want 4.5", rating, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestSetCustomField_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	query := `INSERT INTO custom_fields (id, field_name, type, value) VALUES ($1, $2, $3, $4) ON CONFLICT (id, field_name) DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value`

	// An int value binds type code 1 and its decimal text
	mock.ExpectExec(regexp.QuoteMeta(query)).
		WithArgs("song-1", "play_count", 1, "5").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.SetCustomField(context.Background(), NewSong("song-1", nil, nil), "play_count", 5); err != nil {
		t.Errorf("SetCustomField() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupCustomField_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	query := `SELECT id, type, value FROM custom_fields WHERE field_name = $1 AND id IN ($2, $3, $4)`

	// Both ancestor levels have the field; the nearer one must win
	// regardless of row order
	rows := sqlmock.NewRows([]string{"id", "type", "value"}).
		AddRow("artist-1", 0, "calm").
		AddRow("album-1", 0, "heavy")

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("mood", "song-1", "album-1", "artist-1").
		WillReturnRows(rows)

	value, ok, err := store.LookupCustomField(context.Background(), fullChainSong(), "mood", true)
	if err != nil {
		t.Fatalf("LookupCustomField() error: %v", err)
	}
	if !ok || value.Raw() != "heavy" {
		t.Errorf("LookupCustomField() = (%q, %v), want album's value", value.Raw(), ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupAllCustomFields_Sqlmock(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	query := `SELECT id, field_name, type, value FROM custom_fields WHERE id IN ($1, $2, $3)`

	rows := sqlmock.NewRows([]string{"id", "field_name", "type", "value"}).
		AddRow("artist-1", "source", 0, "import").
		AddRow("artist-1", "quality", 0, "low").
		AddRow("album-1", "quality", 0, "high").
		AddRow("song-1", "loved", 3, "true")

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs("song-1", "album-1", "artist-1").
		WillReturnRows(rows)

	fields, err := store.LookupAllCustomFields(context.Background(), fullChainSong(), true)
	if err != nil {
		t.Fatalf("LookupAllCustomFields() error: %v", err)
	}

	if len(fields) != 3 {
		t.Fatalf("LookupAllCustomFields() returned %d fields, want 3: %v", len(fields), fields)
	}
	if fields["quality"].Raw() != "high" {
		t.Errorf("quality = %q, want the nearer level's %q", fields["quality"].Raw(), "high")
	}
	if fields["source"].Raw() != "import" {
		t.Errorf("source = %q, want %q", fields["source"].Raw(), "import")
	}
	if fields["loved"].Type() != FieldBoolean {
		t.Errorf("loved type = %v, want boolean", fields["loved"].Type())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestSetTags_Sqlmock_RollbackOnError(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tags WHERE id = $1`)).
		WithArgs("song-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO tags`).
		WithArgs("song-1", "first").
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := store.SetTags(context.Background(), NewSong("song-1", nil, nil), []string{"first", "second"})
	if err == nil {
		t.Fatal("Expected error from failed insert")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestSetTags_Sqlmock_Commit(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tags WHERE id = $1`)).
		WithArgs("song-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO tags`).
		WithArgs("song-1", "first").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO tags`).
		WithArgs("song-1", "second").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	if err := store.SetTags(context.Background(), NewSong("song-1", nil, nil), []string{"first", "second"}); err != nil {
		t.Errorf("SetTags() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestGetTags_Sqlmock_NormalizesFailure(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT tag FROM tags`).
		WillReturnError(sql.ErrConnDone)

	tags := store.GetTags(context.Background(), NewSong("song-1", nil, nil), true)
	if tags == nil || len(tags) != 0 {
		t.Errorf("GetTags() = %v, want empty slice on failure", tags)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestGetRating_Sqlmock_NormalizesFailure(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT COALESCE`).
		WillReturnError(sql.ErrConnDone)

	if got := store.GetRating(context.Background(), fullChainSong(), true); got != NoRating {
		t.Errorf("GetRating() = %v, want NoRating on failure", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}

func TestLookupCustomField_Sqlmock_UnknownTypeCode(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	rows := sqlmock.NewRows([]string{"id", "type", "value"}).
		AddRow("song-1", 9, "junk")

	mock.ExpectQuery(`SELECT id, type, value FROM custom_fields`).
		WillReturnRows(rows)

	_, _, err := store.LookupCustomField(context.Background(), NewSong("song-1", nil, nil), "field", false)
	if err == nil {
		t.Fatal("Expected error for unknown stored type code")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unfulfilled expectations: %v", err)
	}
}
