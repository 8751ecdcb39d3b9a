package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/krakowski/BombermanVR/internal/domain"
	"github.com/krakowski/BombermanVR/internal/infrastructure/storage"
	"github.com/krakowski/BombermanVR/internal/mapgen"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	maps := storage.WithDir(os.Getenv("ARENA_MAPS_DIR"))

	switch os.Args[1] {
	case "list":
		names, err := maps.List()
		if err != nil {
			fmt.Printf("Listing maps failed: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
	case "show":
		if len(os.Args) < 3 {
			fmt.Println("Usage: mapview show <name> [seed] [crates]")
			return
		}
		seed, crates, err := roundArgs(os.Args[3:])
		if err != nil {
			fmt.Printf("Invalid argument: %v\n", err)
			os.Exit(1)
		}
		if err := show(maps, os.Args[2], seed, crates); err != nil {
			fmt.Printf("%v\n", err)
			os.Exit(1)
		}
	case "builddate":
		fmt.Println(time.Now().UTC().Format("2006-01-02"))
	default:
		printHelp()
	}
}

func roundArgs(args []string) (seed, crates int32, err error) {
	vals := []*int32{&seed, &crates}
	for i, a := range args {
		if i >= len(vals) {
			break
		}
		n, err := strconv.ParseInt(a, 10, 32)
		if err != nil {
			return 0, 0, err
		}
		*vals[i] = int32(n)
	}
	return seed, crates, nil
}

func show(maps *storage.MapStore, name string, seed, crates int32) error {
	text, err := maps.Load(name)
	if err != nil {
		return err
	}
	layout, err := mapgen.Plan(text, seed, crates)
	if err != nil {
		return err
	}

	grid := layout.Grid
	rows := make([][]rune, grid.Height)
	for y := range rows {
		rows[y] = make([]rune, grid.Width)
		for x := range rows[y] {
			rows[y][x] = grid.At(domain.Position{X: x, Y: y}).Symbol()
		}
	}
	for _, p := range layout.Crates {
		rows[p.Y][p.X] = 'c'
	}

	fmt.Printf("%s %dx%d seed=%d crates=%d/%d fixed=%d starts=%d\n",
		name, grid.Width, grid.Height, seed, len(layout.Crates), crates,
		len(layout.FixedCrates), len(layout.PlayerStarts))
	for _, row := range rows {
		fmt.Println(string(row))
	}
	return nil
}

func printHelp() {
	fmt.Println(`Map viewer - preview arena generation
Commands:
  list                         - list available maps (ARENA_MAPS_DIR adds a directory)
  show <name> [seed] [crates]  - print the layout a round with these parameters gets
  builddate                    - today's date in the format version.BuildDate expects`)
}
