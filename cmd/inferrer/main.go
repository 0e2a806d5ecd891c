// Command inferrer runs one worker process of the AS-path inference
// service: it attaches to a named destination queue, loads the
// relationship store for a given topology snapshot, and infers best paths
// for every destination it pops, forever. It also has a "seed-caida"
// subcommand for bootstrapping a local snapshot cache from a CAIDA as-rel
// file, for local tooling that has no live Redis topology to load from.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Emeline-1/pathinfer/internal/inference"
	"github.com/Emeline-1/pathinfer/internal/logging"
	"github.com/Emeline-1/pathinfer/internal/relstore"
	"github.com/Emeline-1/pathinfer/internal/snapshot"
	"github.com/Emeline-1/pathinfer/internal/store/redisstore"
)

// Args holds the parsed command-line configuration for a worker process.
type Args struct {
	redisHost    string
	redisPort    int
	procqueue    string
	ribtag       string
	dumpGraph    bool
	snapshotPath string
}

func usage() {
	println("\nUsage of inferrer:\n")
	println("  --redis-host <host>   Redis host to connect to (default 127.0.0.1)")
	println("  --redis-port <port>   Redis port to connect to (default 6379)")
	println("  --procqueue <name>    Name of the destination queue to consume")
	println("  --ribtag <tag>        Topology snapshot label to load")
	println("  --dump-graph          Flood the queue with every known AS for a full audit")
	println("  --snapshot <path>     Local sqlite cache to pre-warm/refresh the relationship store from")
}

func parseArgs(argv []string) Args {
	var a Args
	cmd := flag.NewFlagSet("inferrer", flag.ExitOnError)
	cmd.StringVar(&a.redisHost, "redis-host", "127.0.0.1", "Redis host")
	cmd.IntVar(&a.redisPort, "redis-port", 6379, "Redis port")
	cmd.StringVar(&a.procqueue, "procqueue", "", "Destination queue name")
	cmd.StringVar(&a.ribtag, "ribtag", "", "Topology snapshot label")
	cmd.BoolVar(&a.dumpGraph, "dump-graph", false, "Flood the queue with every known AS")
	cmd.StringVar(&a.snapshotPath, "snapshot", "", "Local sqlite relationship-store cache path")
	cmd.Usage = usage
	cmd.Parse(argv)

	if a.procqueue == "" || a.ribtag == "" {
		usage()
		os.Exit(1)
	}
	return a
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "seed-caida" {
		seedCAIDA(os.Args[2:])
		return
	}

	args := parseArgs(os.Args[1:])

	redis := redisstore.New(redisstore.Options{
		Addr: args.redisHost + ":" + strconv.Itoa(args.redisPort),
	})
	defer redis.Close()

	ctx := context.Background()
	if _, err := redis.Exists(ctx, "__inferrer_connectivity_probe__"); err != nil {
		log.Println("inferrer: could not reach redis:", err)
		os.Exit(1)
	}

	logger, err := logging.New(ctx, redis, args.ribtag, args.procqueue)
	if err != nil {
		log.Println("inferrer: setting up logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	driver, err := inference.Init(ctx, redis, logger, inference.Config{
		Ribtag:       args.ribtag,
		Procqueue:    args.procqueue,
		PoolWorkers:  16,
		DumpGraph:    args.dumpGraph,
		SnapshotPath: args.snapshotPath,
	})
	if err != nil {
		logger.Errorw("initialization failed", "error", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	logger.Infow("inferrer ready", "ribtag", args.ribtag, "procqueue", args.procqueue)
	run(ctx, driver, logger)
}

// seedCAIDAArgs holds the parsed command-line configuration for the
// seed-caida subcommand.
type seedCAIDAArgs struct {
	file         string
	ribtag       string
	snapshotPath string
}

func seedCAIDAUsage() {
	println("\nUsage of inferrer seed-caida:\n")
	println("  --file <path>      CAIDA as-rel file to load (.txt, .gz, or .bz2)")
	println("  --ribtag <tag>     Topology snapshot label to store the loaded edges under")
	println("  --snapshot <path>  Local sqlite cache to write the loaded relationship store to")
}

func parseSeedCAIDAArgs(argv []string) seedCAIDAArgs {
	var a seedCAIDAArgs
	cmd := flag.NewFlagSet("seed-caida", flag.ExitOnError)
	cmd.StringVar(&a.file, "file", "", "CAIDA as-rel file")
	cmd.StringVar(&a.ribtag, "ribtag", "", "Topology snapshot label")
	cmd.StringVar(&a.snapshotPath, "snapshot", "", "Local sqlite relationship-store cache path")
	cmd.Usage = seedCAIDAUsage
	cmd.Parse(argv)

	if a.file == "" || a.ribtag == "" || a.snapshotPath == "" {
		seedCAIDAUsage()
		os.Exit(1)
	}
	return a
}

// seedCAIDA bootstraps a relationship store directly from a CAIDA as-rel
// file and writes it into a local snapshot cache under ribtag, so a worker
// process started with the matching --ribtag/--snapshot flags pre-warms
// from it instead of waiting on a live topology load.
func seedCAIDA(argv []string) {
	args := parseSeedCAIDAArgs(argv)

	s, err := relstore.LoadCAIDAASRel(args.file)
	if err != nil {
		log.Println("seed-caida: loading", args.file, ":", err)
		os.Exit(1)
	}
	ases := s.ASes()

	cache, err := snapshot.Open(args.snapshotPath)
	if err != nil {
		log.Println("seed-caida: opening snapshot cache:", err)
		os.Exit(1)
	}
	defer cache.Close()

	if err := cache.Save(args.ribtag, s, ases); err != nil {
		log.Println("seed-caida: saving snapshot:", err)
		os.Exit(1)
	}
	log.Printf("seed-caida: wrote %d ASes from %s into %s under ribtag %q\n", len(ases), args.file, args.snapshotPath, args.ribtag)
}

func run(ctx context.Context, driver *inference.Driver, logger *zap.SugaredLogger) {
	for {
		if _, err := driver.PopAndInfer(ctx); err != nil {
			logger.Errorw("inference round failed", "error", err)
			time.Sleep(time.Second)
		}
	}
}
