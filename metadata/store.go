package metadata

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/RubbaBoy/QilletniMetadata/db"
	"github.com/RubbaBoy/QilletniMetadata/errors"
)

// NoRating is returned by GetRating when no rating exists anywhere in the
// resolved chain.
const NoRating float64 = -1

// Statement templates. The %s verbs receive positional placeholders (and,
// for chain lookups, the computed placeholder fragment) at render time.
const (
	insertTagQuery        = `INSERT INTO tags (id, tag) VALUES (%s, %s) ON CONFLICT (id, tag) DO NOTHING`
	selectTagsQuery       = `SELECT tag FROM tags WHERE id IN (%s)`
	deleteTagQuery        = `DELETE FROM tags WHERE tag = %s AND id IN (%s)`
	deleteObjectTagsQuery = `DELETE FROM tags WHERE id = %s`

	upsertDescriptionQuery = `INSERT INTO descriptions (id, description) VALUES (%s, %s) ON CONFLICT (id) DO UPDATE SET description = EXCLUDED.description`
	descriptionLookup      = `(SELECT description FROM descriptions WHERE id = %s)`

	upsertRateQuery = `INSERT INTO rates (id, rate) VALUES (%s, %s) ON CONFLICT (id) DO UPDATE SET rate = EXCLUDED.rate`
	rateLookup      = `(SELECT rate FROM rates WHERE id = %s)`

	upsertCustomFieldQuery     = `INSERT INTO custom_fields (id, field_name, type, value) VALUES (%s, %s, %s, %s) ON CONFLICT (id, field_name) DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value`
	selectCustomFieldQuery     = `SELECT id, type, value FROM custom_fields WHERE field_name = %s AND id IN (%s)`
	selectAllCustomFieldsQuery = `SELECT id, field_name, type, value FROM custom_fields WHERE id IN (%s)`
)

// Store resolves and persists object attributes over a relational backend.
// Only one Store should be created per application context; it is safe for
// concurrent use, with last-write-wins semantics on concurrent upserts to
// the same object id.
//
// Every read has two forms. The Lookup* form surfaces backend errors and
// reports presence explicitly. The Get* form implements the normalized
// contract: any failure is logged and mapped to the absent value (no tags,
// empty string, NoRating, missing field).
type Store struct {
	db        *sql.DB
	flavor    db.Flavor
	logger    *zap.SugaredLogger
	connected bool

	// Fixed-arity statements rendered once for the backend's placeholder
	// syntax. Chain-sized statements are built per call.
	insertTag         string
	deleteObjectTags  string
	upsertDescription string
	upsertRate        string
	upsertCustomField string
}

// New builds a Store over an open database and runs the schema bootstrap.
// A bootstrap failure is absorbed: the store is still returned, reports
// IsConnected false, and every operation fails with ErrNotConnected until
// a new Store is constructed over a healthy connection.
func New(ctx context.Context, database *sql.DB, flavor db.Flavor, logger *zap.SugaredLogger) *Store {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	s := &Store{
		db:     database,
		flavor: flavor,
		logger: logger,

		insertTag:         fmt.Sprintf(insertTagQuery, flavor.Placeholder(1), flavor.Placeholder(2)),
		deleteObjectTags:  fmt.Sprintf(deleteObjectTagsQuery, flavor.Placeholder(1)),
		upsertDescription: fmt.Sprintf(upsertDescriptionQuery, flavor.Placeholder(1), flavor.Placeholder(2)),
		upsertRate:        fmt.Sprintf(upsertRateQuery, flavor.Placeholder(1), flavor.Placeholder(2)),
		upsertCustomField: fmt.Sprintf(upsertCustomFieldQuery, flavor.Placeholder(1), flavor.Placeholder(2), flavor.Placeholder(3), flavor.Placeholder(4)),
	}

	if database == nil {
		s.logger.Warnw("Metadata store created without a database connection")
		return s
	}

	if err := db.Bootstrap(ctx, database, logger); err != nil {
		s.logger.Warnw("Schema bootstrap failed; metadata store disconnected",
			"backend", flavor.String(),
			"error", err,
		)
		return s
	}

	s.connected = true
	return s
}

// IsConnected reports whether the backing schema was bootstrapped
// successfully at construction.
func (s *Store) IsConnected() bool {
	return s.connected
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ready() error {
	if !s.connected {
		return errors.ErrNotConnected
	}
	return nil
}

// objectID validates the object and returns its id
func objectID(obj MetaObject) (string, error) {
	if obj == nil {
		return "", errors.New("object cannot be nil")
	}
	if obj.ID() == "" {
		return "", errors.New("object id cannot be empty")
	}
	return obj.ID(), nil
}

func safeID(obj MetaObject) string {
	if obj == nil {
		return ""
	}
	return obj.ID()
}

// LookupTags returns every tag visible on the object. With inherit, every
// level of the chain contributes all of its tags; the result is a union
// with no deduplication across levels and no ordering guarantee.
func (s *Store) LookupTags(ctx context.Context, obj MetaObject, inherit bool) ([]string, error) {
	id, err := objectID(obj)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	ids := Chain(obj, inherit)
	query := fmt.Sprintf(selectTagsQuery, inListPlaceholders(s.flavor, 1, len(ids)))

	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch tags for %s", id)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, errors.Wrap(err, "failed to scan tag")
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate tags")
	}
	return tags, nil
}

// GetTags is the normalized form of LookupTags; failures yield no tags.
func (s *Store) GetTags(ctx context.Context, obj MetaObject, inherit bool) []string {
	tags, err := s.LookupTags(ctx, obj, inherit)
	if err != nil {
		s.logger.Debugw("Tag lookup failed; returning no tags",
			"object_id", safeID(obj),
			"error", err,
		)
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

// AddTag attaches a tag to the object itself. Adding a tag the object
// already has is a no-op.
func (s *Store) AddTag(ctx context.Context, obj MetaObject, tag string) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if tag == "" {
		return errors.New("tag cannot be empty")
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.insertTag, id, tag); err != nil {
		return errors.Wrapf(err, "failed to add tag %s to %s", tag, id)
	}

	s.logger.Debugw("Added tag", "object_id", id, "tag", tag)
	return nil
}

// RemoveTag deletes the tag from the object and, with inherit, from every
// ancestor in the chain that has it. Removal is deliberately not symmetric
// with reads: tags are read as a union, but an inherited removal deletes at
// every level, not just the nearest one.
func (s *Store) RemoveTag(ctx context.Context, obj MetaObject, tag string, inherit bool) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if tag == "" {
		return errors.New("tag cannot be empty")
	}
	if err := s.ready(); err != nil {
		return err
	}

	ids := Chain(obj, inherit)
	query := fmt.Sprintf(deleteTagQuery, s.flavor.Placeholder(1), inListPlaceholders(s.flavor, 2, len(ids)))
	args := append([]interface{}{tag}, idArgs(ids)...)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to remove tag %s from %s", tag, id)
	}

	s.logger.Debugw("Removed tag", "object_id", id, "tag", tag, "levels", len(ids))
	return nil
}

// SetTags atomically replaces the object's own tag set. Ancestor tags are
// untouched.
func (s *Store) SetTags(ctx context.Context, obj MetaObject, tags []string) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() // Rollback if not committed

	if _, err := tx.ExecContext(ctx, s.deleteObjectTags, id); err != nil {
		return errors.Wrapf(err, "failed to clear tags for %s", id)
	}

	for _, tag := range tags {
		if tag == "" {
			return errors.New("tag cannot be empty")
		}
		if _, err := tx.ExecContext(ctx, s.insertTag, id, tag); err != nil {
			return errors.Wrapf(err, "failed to insert tag %s for %s", tag, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	s.logger.Debugw("Replaced tags", "object_id", id, "count", len(tags))
	return nil
}

// LookupDescription returns the nearest description walking the chain, and
// whether any level had one.
func (s *Store) LookupDescription(ctx context.Context, obj MetaObject, inherit bool) (string, bool, error) {
	id, err := objectID(obj)
	if err != nil {
		return "", false, err
	}
	if err := s.ready(); err != nil {
		return "", false, err
	}

	ids := Chain(obj, inherit)
	query := "SELECT " + priorityExpr(s.flavor, descriptionLookup, len(ids))

	var description sql.NullString
	if err := s.db.QueryRowContext(ctx, query, idArgs(ids)...).Scan(&description); err != nil {
		return "", false, errors.Wrapf(err, "failed to fetch description for %s", id)
	}
	if !description.Valid {
		return "", false, nil
	}
	return description.String, true, nil
}

// GetDescription is the normalized form of LookupDescription; absence and
// failure both yield the empty string.
func (s *Store) GetDescription(ctx context.Context, obj MetaObject, inherit bool) string {
	description, ok, err := s.LookupDescription(ctx, obj, inherit)
	if err != nil {
		s.logger.Debugw("Description lookup failed; returning empty",
			"object_id", safeID(obj),
			"error", err,
		)
		return ""
	}
	if !ok {
		return ""
	}
	return description
}

// SetDescription upserts the description on the object itself; ancestors
// are never written.
func (s *Store) SetDescription(ctx context.Context, obj MetaObject, description string) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.upsertDescription, id, description); err != nil {
		return errors.Wrapf(err, "failed to set description for %s", id)
	}
	return nil
}

// LookupRating returns the nearest rating walking the chain, and whether
// any level had one.
func (s *Store) LookupRating(ctx context.Context, obj MetaObject, inherit bool) (float64, bool, error) {
	id, err := objectID(obj)
	if err != nil {
		return 0, false, err
	}
	if err := s.ready(); err != nil {
		return 0, false, err
	}

	ids := Chain(obj, inherit)
	query := "SELECT " + priorityExpr(s.flavor, rateLookup, len(ids))

	var rate sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, query, idArgs(ids)...).Scan(&rate); err != nil {
		return 0, false, errors.Wrapf(err, "failed to fetch rating for %s", id)
	}
	if !rate.Valid {
		return 0, false, nil
	}
	return rate.Float64, true, nil
}

// GetRating is the normalized form of LookupRating; absence and failure
// both yield NoRating.
func (s *Store) GetRating(ctx context.Context, obj MetaObject, inherit bool) float64 {
	rating, ok, err := s.LookupRating(ctx, obj, inherit)
	if err != nil {
		s.logger.Debugw("Rating lookup failed; returning sentinel",
			"object_id", safeID(obj),
			"error", err,
		)
		return NoRating
	}
	if !ok {
		return NoRating
	}
	return rating
}

// SetRating upserts the rating on the object itself; ancestors are never
// written.
func (s *Store) SetRating(ctx context.Context, obj MetaObject, rating float64) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.upsertRate, id, rating); err != nil {
		return errors.Wrapf(err, "failed to set rating for %s", id)
	}
	return nil
}

// LookupCustomField returns the named field from the nearest level of the
// chain that has it set.
func (s *Store) LookupCustomField(ctx context.Context, obj MetaObject, field string, inherit bool) (FieldValue, bool, error) {
	id, err := objectID(obj)
	if err != nil {
		return FieldValue{}, false, err
	}
	if field == "" {
		return FieldValue{}, false, errors.New("field name cannot be empty")
	}
	if err := s.ready(); err != nil {
		return FieldValue{}, false, err
	}

	ids := Chain(obj, inherit)
	query := fmt.Sprintf(selectCustomFieldQuery, s.flavor.Placeholder(1), inListPlaceholders(s.flavor, 2, len(ids)))
	args := append([]interface{}{field}, idArgs(ids)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return FieldValue{}, false, errors.Wrapf(err, "failed to fetch custom field %s for %s", field, id)
	}
	defer rows.Close()

	byID := make(map[string]FieldValue)
	for rows.Next() {
		var rowID string
		var typeCode int64
		var raw string
		if err := rows.Scan(&rowID, &typeCode, &raw); err != nil {
			return FieldValue{}, false, errors.Wrap(err, "failed to scan custom field")
		}
		value, err := storedFieldValue(typeCode, raw)
		if err != nil {
			return FieldValue{}, false, errors.Wrapf(err, "custom field %s on %s", field, rowID)
		}
		byID[rowID] = value
	}
	if err := rows.Err(); err != nil {
		return FieldValue{}, false, errors.Wrap(err, "failed to iterate custom fields")
	}

	// Nearest level wins
	for _, chainID := range ids {
		if value, ok := byID[chainID]; ok {
			return value, true, nil
		}
	}
	return FieldValue{}, false, nil
}

// GetCustomField is the normalized form of LookupCustomField; absence and
// failure both report a missing field.
func (s *Store) GetCustomField(ctx context.Context, obj MetaObject, field string, inherit bool) (FieldValue, bool) {
	value, ok, err := s.LookupCustomField(ctx, obj, field, inherit)
	if err != nil {
		s.logger.Debugw("Custom field lookup failed; reporting absent",
			"object_id", safeID(obj),
			"field_name", field,
			"error", err,
		)
		return FieldValue{}, false
	}
	return value, ok
}

// LookupAllCustomFields merges the chain's custom fields field-by-field,
// nearest level winning per field name.
func (s *Store) LookupAllCustomFields(ctx context.Context, obj MetaObject, inherit bool) (map[string]FieldValue, error) {
	id, err := objectID(obj)
	if err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	ids := Chain(obj, inherit)
	query := fmt.Sprintf(selectAllCustomFieldsQuery, inListPlaceholders(s.flavor, 1, len(ids)))

	rows, err := s.db.QueryContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch custom fields for %s", id)
	}
	defer rows.Close()

	byID := make(map[string]map[string]FieldValue)
	for rows.Next() {
		var rowID, name string
		var typeCode int64
		var raw string
		if err := rows.Scan(&rowID, &name, &typeCode, &raw); err != nil {
			return nil, errors.Wrap(err, "failed to scan custom field")
		}
		value, err := storedFieldValue(typeCode, raw)
		if err != nil {
			return nil, errors.Wrapf(err, "custom field %s on %s", name, rowID)
		}
		if byID[rowID] == nil {
			byID[rowID] = make(map[string]FieldValue)
		}
		byID[rowID][name] = value
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate custom fields")
	}

	// Merge root-first so nearer levels overwrite per field name
	merged := make(map[string]FieldValue)
	for i := len(ids) - 1; i >= 0; i-- {
		for name, value := range byID[ids[i]] {
			merged[name] = value
		}
	}
	return merged, nil
}

// GetAllCustomFields is the normalized form of LookupAllCustomFields;
// failures yield an empty mapping.
func (s *Store) GetAllCustomFields(ctx context.Context, obj MetaObject, inherit bool) map[string]FieldValue {
	fields, err := s.LookupAllCustomFields(ctx, obj, inherit)
	if err != nil {
		s.logger.Debugw("Custom fields lookup failed; returning none",
			"object_id", safeID(obj),
			"error", err,
		)
		return map[string]FieldValue{}
	}
	return fields
}

// SetCustomField derives the value's type code, serializes it, and upserts
// the field on the object itself.
func (s *Store) SetCustomField(ctx context.Context, obj MetaObject, field string, value interface{}) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if field == "" {
		return errors.New("field name cannot be empty")
	}
	if err := s.ready(); err != nil {
		return err
	}

	fieldValue, err := FieldValueOf(value)
	if err != nil {
		return errors.Wrapf(err, "custom field %s for %s", field, id)
	}

	if _, err := s.db.ExecContext(ctx, s.upsertCustomField, id, field, int(fieldValue.Type()), fieldValue.Raw()); err != nil {
		return errors.Wrapf(err, "failed to set custom field %s for %s", field, id)
	}

	s.logger.Debugw("Set custom field",
		"object_id", id,
		"field_name", field,
		"type", fieldValue.Type().String(),
	)
	return nil
}

// SetAllCustomFields upserts every field in the mapping on the object
// itself, in a single transaction.
func (s *Store) SetAllCustomFields(ctx context.Context, obj MetaObject, fields map[string]interface{}) error {
	id, err := objectID(obj)
	if err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback() // Rollback if not committed

	for field, value := range fields {
		if field == "" {
			return errors.New("field name cannot be empty")
		}
		fieldValue, err := FieldValueOf(value)
		if err != nil {
			return errors.Wrapf(err, "custom field %s for %s", field, id)
		}
		if _, err := tx.ExecContext(ctx, s.upsertCustomField, id, field, int(fieldValue.Type()), fieldValue.Raw()); err != nil {
			return errors.Wrapf(err, "failed to set custom field %s for %s", field, id)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	s.logger.Debugw("Set custom fields", "object_id", id, "count", len(fields))
	return nil
}
