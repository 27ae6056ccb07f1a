package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RubbaBoy/QilletniMetadata/config"
	"github.com/RubbaBoy/QilletniMetadata/errors"
	"github.com/RubbaBoy/QilletniMetadata/logger"
	"github.com/RubbaBoy/QilletniMetadata/metadata"
)

// openStore connects to the configured backend. Library callers get a
// soft-disconnected store on failure; the CLI fails fast instead.
func openStore(ctx context.Context) (*metadata.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	store := metadata.Connect(ctx, cfg, logger.Logger)
	if !store.IsConnected() {
		store.Close()
		return nil, errors.New("metadata store is not connected, check database configuration")
	}

	return store, nil
}

// addObjectFlags registers the object addressing flags shared by the
// attribute commands.
func addObjectFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("kind", "song", "Object kind: song, album, or artist")
	cmd.PersistentFlags().String("album-id", "", "Album the song belongs to (song kind only)")
	cmd.PersistentFlags().String("artist-id", "", "Credited artist (song and album kinds)")
}

// objectFromFlags builds the addressed object from the positional id and
// the --kind/--album-id/--artist-id flags.
func objectFromFlags(cmd *cobra.Command, id string) (metadata.MetaObject, error) {
	kind, _ := cmd.Flags().GetString("kind")
	albumID, _ := cmd.Flags().GetString("album-id")
	artistID, _ := cmd.Flags().GetString("artist-id")

	return buildObject(kind, id, albumID, artistID)
}

// buildObject assembles the object graph for the addressed kind.
func buildObject(kind, id, albumID, artistID string) (metadata.MetaObject, error) {
	var artist *metadata.Artist
	if artistID != "" {
		artist = metadata.NewArtist(artistID)
	}

	switch kind {
	case "song":
		var album *metadata.Album
		if albumID != "" {
			album = metadata.NewAlbum(albumID, artist)
		}
		return metadata.NewSong(id, album, artist), nil

	case "album":
		if albumID != "" {
			return nil, errors.New("--album-id only applies to the song kind")
		}
		return metadata.NewAlbum(id, artist), nil

	case "artist":
		if albumID != "" || artistID != "" {
			return nil, errors.New("artists have no parent object")
		}
		return metadata.NewArtist(id), nil

	default:
		return nil, errors.Newf("unknown object kind %q (expected song, album, or artist)", kind)
	}
}

// inheritFromFlags reports whether the chain should be consulted. The
// --exact flag limits the operation to the addressed object itself.
func inheritFromFlags(cmd *cobra.Command) bool {
	exact, _ := cmd.Flags().GetBool("exact")
	return !exact
}
