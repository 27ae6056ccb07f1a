// Package metadata attaches tags, free-text descriptions, numeric ratings,
// and typed custom fields to songs, albums, and artists, and resolves them
// through the song → album → artist inheritance chain.
package metadata

// MetaObject is the subject of attribute attachment: a Song, Album, or
// Artist. The store never persists objects, it only reads their id and
// parent; callers own the object graph.
type MetaObject interface {
	// ID returns the stable, globally unique identifier of the object.
	ID() string

	// Parent returns the immediate parent in the inheritance chain, or nil
	// at the root.
	Parent() MetaObject

	// The variant set is closed; attribute resolution depends on the fixed
	// hierarchy depth.
	sealed()
}

// Song is a track credited to an Artist, optionally belonging to an Album.
// A song without an album inherits directly from its artist.
type Song struct {
	id     string
	album  *Album
	artist *Artist
}

// NewSong creates a song. Both album and artist may be nil.
func NewSong(id string, album *Album, artist *Artist) *Song {
	return &Song{id: id, album: album, artist: artist}
}

// ID returns the song identifier
func (s *Song) ID() string { return s.id }

// Parent returns the song's album when present, otherwise its artist.
func (s *Song) Parent() MetaObject {
	if s.album != nil {
		return s.album
	}
	if s.artist != nil {
		return s.artist
	}
	return nil
}

// Album returns the album the song belongs to, or nil
func (s *Song) Album() *Album { return s.album }

// Artist returns the credited artist, or nil
func (s *Song) Artist() *Artist { return s.artist }

func (s *Song) sealed() {}

// Album is a release, optionally credited to an Artist.
type Album struct {
	id     string
	artist *Artist
}

// NewAlbum creates an album. The artist may be nil.
func NewAlbum(id string, artist *Artist) *Album {
	return &Album{id: id, artist: artist}
}

// ID returns the album identifier
func (a *Album) ID() string { return a.id }

// Parent returns the album's artist, or nil
func (a *Album) Parent() MetaObject {
	if a.artist != nil {
		return a.artist
	}
	return nil
}

// Artist returns the credited artist, or nil
func (a *Album) Artist() *Artist { return a.artist }

func (a *Album) sealed() {}

// Artist is the root of the hierarchy.
type Artist struct {
	id string
}

// NewArtist creates an artist
func NewArtist(id string) *Artist {
	return &Artist{id: id}
}

// ID returns the artist identifier
func (a *Artist) ID() string { return a.id }

// Parent always returns nil for artists
func (a *Artist) Parent() MetaObject { return nil }

func (a *Artist) sealed() {}

// Chain returns the ordered id chain used for attribute lookups, self-first
// and root-last. The order carries the resolution semantics: first-match
// reads take the value from the nearest level that has one. With inherit
// false the chain contains only the object's own id.
func Chain(obj MetaObject, inherit bool) []string {
	if obj == nil {
		return nil
	}
	if !inherit {
		return []string{obj.ID()}
	}

	var ids []string
	for cur := obj; cur != nil; cur = cur.Parent() {
		ids = append(ids, cur.ID())
	}
	return ids
}
