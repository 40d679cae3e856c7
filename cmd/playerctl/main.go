// playerctl is a maintenance CLI for the playlist database.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"songplayer/internal/config"
	"songplayer/internal/db"
	"songplayer/internal/importer"
	"songplayer/internal/storage"
)

const usage = `usage: playerctl <command> [args]

commands:
  list                        list playlist names
  show <name>                 show a playlist's tracks and state
  import <playlist> <file>... import audio files into a playlist
  delete <name>               delete a playlist
  rename <old> <new>          rename a playlist
  cleanup                     remove audio items no playlist references
  stats                       print database statistics`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer database.Close()

	svc := storage.New(database, log)
	if cfg.PlaceholderImage != "" {
		svc.SetPlaceholderImage(cfg.PlaceholderImage)
	}
	if err := svc.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}
	defer svc.Shutdown()

	if err := run(svc, log, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "playerctl: %v\n", err)
		os.Exit(1)
	}
}

func run(svc *storage.Service, log zerolog.Logger, command string, args []string) error {
	switch command {
	case "list":
		return listPlaylists(svc)
	case "show":
		if len(args) != 1 {
			return fmt.Errorf("show expects a playlist name")
		}
		return showPlaylist(svc, args[0])
	case "import":
		if len(args) < 2 {
			return fmt.Errorf("import expects a playlist name and at least one file")
		}
		return importFiles(svc, log, args[0], args[1:])
	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("delete expects a playlist name")
		}
		return svc.DeletePlaylist(args[0])
	case "rename":
		if len(args) != 2 {
			return fmt.Errorf("rename expects old and new names")
		}
		return svc.RenamePlaylist(args[0], args[1])
	case "cleanup":
		return cleanup(svc)
	case "stats":
		return printStats(svc)
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func listPlaylists(svc *storage.Service) error {
	names, err := svc.PlaylistNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func showPlaylist(svc *storage.Service, name string) error {
	info, err := svc.LoadPlaylist(name)
	if err != nil {
		return err
	}

	fmt.Printf("%s  (mode: %s, current: %d, updated: %s)\n",
		info.Name, info.PlayMode, info.CurrentIndex, info.UpdatedAt.Format("2006-01-02 15:04:05"))
	for i, track := range info.Tracks {
		marker := "  "
		if i == info.CurrentIndex {
			marker = "* "
		}
		fmt.Printf("%s%3d  %s - %s\n", marker, i, track.Author, track.Title)
	}
	return nil
}

func importFiles(svc *storage.Service, log zerolog.Logger, name string, paths []string) error {
	tracks, failed := importer.ImportFiles(paths)
	for _, path := range failed {
		log.Warn().Str("path", path).Msg("skipped unreadable file")
	}
	if len(tracks) == 0 {
		return fmt.Errorf("no importable files")
	}

	for i := range tracks {
		if err := svc.AddAudio(name, tracks[i]); err != nil {
			return err
		}
	}
	fmt.Printf("imported %d track(s) into %q\n", len(tracks), name)
	return nil
}

func cleanup(svc *storage.Service) error {
	removed, err := svc.CleanupUnusedAudioItems()
	if err != nil {
		return err
	}
	fmt.Printf("removed %d unused audio item(s)\n", removed)
	return nil
}

func printStats(svc *storage.Service) error {
	stats, err := svc.GetStats()
	if err != nil {
		return err
	}
	fmt.Printf("playlists:   %d\n", stats.Playlists)
	fmt.Printf("audio items: %d\n", stats.AudioItems)
	return nil
}
