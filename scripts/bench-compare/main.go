// bench-compare measures parse and compare throughput over the files
// changed between two revisions of a target repository.
//
// Usage:
//
//	go run ./scripts/bench-compare --repo ~/sources/kubernetes \
//	  --base HEAD~100 --target HEAD --iterations 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/lang/golang"
	"github.com/astdiff-tech/astdiff/pkg/lang/python"
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

type workItem struct {
	path   string
	parser lang.Parser
	left   []byte
	right  []byte
}

func main() {
	repoPath := flag.String("repo", "", "Path to git repository")
	baseRev := flag.String("base", "HEAD~1", "Base revision")
	targetRev := flag.String("target", "HEAD", "Target revision")
	iterations := flag.Int("iterations", 10, "Number of timed passes over the changed files")
	profileDir := flag.String("profile-dir", "", "Directory to write profiles")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *repoPath == "" {
		log.Fatal("--repo is required")
	}

	if *cpuProfile {
		if *profileDir == "" {
			log.Fatal("--profile-dir is required with --cpu-profile")
		}

		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}

		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	repo, err := gitsrc.Discover(*repoPath)
	if err != nil {
		log.Fatalf("open repo: %v", err)
	}
	defer repo.Free()

	items, totalBytes := loadWork(repo, *baseRev, *targetRev)
	log.Printf("loaded %d comparable files (%.1f MB) between %s and %s",
		len(items), float64(totalBytes)/1e6, *baseRev, *targetRev)

	if len(items) == 0 {
		log.Fatal("nothing to compare")
	}

	ctx := context.Background()
	durations := make([]time.Duration, 0, *iterations)

	for i := range *iterations {
		started := time.Now()

		for _, item := range items {
			leftTree, parseErr := item.parser.Parse(ctx, item.path, item.left)
			if parseErr != nil {
				log.Fatalf("parse %s: %v", item.path, parseErr)
			}

			rightTree, parseErr := item.parser.Parse(ctx, item.path, item.right)
			if parseErr != nil {
				log.Fatalf("parse %s: %v", item.path, parseErr)
			}

			_ = stree.Compare(leftTree, rightTree)
		}

		elapsed := time.Since(started)
		durations = append(durations, elapsed)
		log.Printf("pass %d/%d: %v", i+1, *iterations, elapsed)
	}

	printSummary(items, totalBytes, durations)
}

// loadWork fetches both revisions of every changed file that has a parser,
// so the timed passes measure parsing and comparison alone.
func loadWork(repo *gitsrc.Repository, baseRev, targetRev string) ([]workItem, int) {
	base, err := repo.ResolveCommit(baseRev)
	if err != nil {
		log.Fatalf("resolve base: %v", err)
	}
	defer base.Free()

	target, err := repo.ResolveCommit(targetRev)
	if err != nil {
		log.Fatalf("resolve target: %v", err)
	}
	defer target.Free()

	changes, err := repo.ChangedFiles(base, target)
	if err != nil {
		log.Fatalf("diff: %v", err)
	}

	registry := lang.NewRegistry(golang.New(), python.New())

	var items []workItem

	totalBytes := 0

	for _, change := range changes {
		left, leftErr := repo.FileAt(base, change.Path)
		if leftErr != nil {
			continue
		}

		right, rightErr := repo.FileAt(target, change.Path)
		if rightErr != nil {
			continue
		}

		parser, parserErr := registry.ParserFor(change.Path, right)
		if parserErr != nil {
			continue
		}

		items = append(items, workItem{path: change.Path, parser: parser, left: left, right: right})
		totalBytes += len(left) + len(right)
	}

	return items, totalBytes
}

func printSummary(items []workItem, totalBytes int, durations []time.Duration) {
	var total time.Duration

	best := durations[0]
	for _, d := range durations {
		total += d
		if d < best {
			best = d
		}
	}

	mean := total / time.Duration(len(durations))

	var m runtime.MemStats

	runtime.GC()
	runtime.ReadMemStats(&m)

	fmt.Println()
	fmt.Println("=== Compare Throughput ===")
	fmt.Printf("%-20s %10d\n", "Files per pass", len(items))
	fmt.Printf("%-20s %10.1f\n", "MB per pass", float64(totalBytes)/1e6)
	fmt.Printf("%-20s %10v\n", "Mean pass", mean)
	fmt.Printf("%-20s %10v\n", "Best pass", best)
	fmt.Printf("%-20s %10.1f\n", "Files/sec (best)", float64(len(items))/best.Seconds())
	fmt.Printf("%-20s %10.1f\n", "MB/sec (best)", float64(totalBytes)/1e6/best.Seconds())
	fmt.Printf("%-20s %10.1f\n", "Heap in use (MB)", float64(m.HeapInuse)/1e6)
}
