package main

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/heysubinoy/achardb/internal/logger"
	"github.com/heysubinoy/achardb/internal/store"
	"github.com/heysubinoy/achardb/pkg/config"
	"github.com/heysubinoy/achardb/pkg/kv"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(os.Getenv("ACHAR_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	slogger := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	engine, err := store.Open(store.Options{
		Path:     cfg.DBPath,
		AutoDump: cfg.AutoDump,
		Backend:  cfg.Backend,
		Logger:   slogger,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer engine.Close()

	db := store.NewInstrumentedStore(engine)
	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "get":
		requireArgs(args, 1, "get <key>")
		handleGet(db, args[0])

	case "set":
		requireArgs(args, 2, "set <key> <value>")
		must(db.Set(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Set '%s' = '%s'\n", args[0], args[1])

	case "append":
		requireArgs(args, 2, "append <key> <more>")
		must(db.Append(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Appended to '%s'\n", args[0])

	case "rem":
		requireArgs(args, 1, "rem <key>")
		must(db.Rem(args[0]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Removed '%s'\n", args[0])

	case "exists":
		requireArgs(args, 1, "exists <key>")
		fmt.Println(db.Exists(args[0]))

	case "keys":
		keys := db.GetAll()
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Println(key)
		}

	case "total":
		fmt.Println(db.TotalKeys())

	case "clear":
		must(db.Clear())
		persist(db, cfg.AutoDump)
		fmt.Println("Database cleared")

	case "dump":
		must(db.Dump())
		fmt.Println("Database dumped")

	case "lcreate":
		requireArgs(args, 1, "lcreate <key>")
		must(db.LCreate(args[0]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Created list '%s'\n", args[0])

	case "ladd":
		requireArgs(args, 2, "ladd <key> <value>")
		must(db.LAdd(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Added to list '%s'\n", args[0])

	case "lextend":
		requireArgs(args, 2, "lextend <key> <value>...")
		must(db.LExtend(args[0], args[1:]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Added %d values to list '%s'\n", len(args[1:]), args[0])

	case "lall":
		requireArgs(args, 1, "lall <key>")
		items := mustValue(db.LGetAll(args[0]))
		for _, item := range items {
			fmt.Println(item)
		}

	case "lrange":
		requireArgs(args, 3, "lrange <key> <start> <end>")
		items := mustValue(db.LRange(args[0], parseIndex(args[1]), parseIndex(args[2])))
		for _, item := range items {
			fmt.Println(item)
		}

	case "lpop":
		requireArgs(args, 2, "lpop <key> <index>")
		value := mustValue(db.LPop(args[0], parseIndex(args[1])))
		persist(db, cfg.AutoDump)
		fmt.Println(value)

	case "lremvalue":
		requireArgs(args, 2, "lremvalue <key> <value>")
		must(db.LRemValue(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Removed '%s' from list '%s'\n", args[1], args[0])

	case "lremlist":
		requireArgs(args, 1, "lremlist <key>")
		must(db.LRemList(args[0]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Removed list '%s'\n", args[0])

	case "dcreate":
		requireArgs(args, 1, "dcreate <key>")
		must(db.DCreate(args[0]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Created dict '%s'\n", args[0])

	case "dadd":
		requireArgs(args, 3, "dadd <key> <subkey> <value>")
		must(db.DAdd(args[0], args[1], args[2]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Set '%s[%s]' = '%s'\n", args[0], args[1], args[2])

	case "dget":
		requireArgs(args, 2, "dget <key> <subkey>")
		fmt.Println(mustValue(db.DGet(args[0], args[1])))

	case "dall":
		requireArgs(args, 1, "dall <key>")
		pairs := mustValue(db.DGetAll(args[0]))
		subkeys := make([]string, 0, len(pairs))
		for subkey := range pairs {
			subkeys = append(subkeys, subkey)
		}
		sort.Strings(subkeys)
		for _, subkey := range subkeys {
			fmt.Printf("%s=%s\n", subkey, pairs[subkey])
		}

	case "dpop":
		requireArgs(args, 2, "dpop <key> <subkey>")
		value := mustValue(db.DPop(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Println(value)

	case "drem":
		requireArgs(args, 1, "drem <key>")
		must(db.DRem(args[0]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Removed dict '%s'\n", args[0])

	case "dexists":
		requireArgs(args, 2, "dexists <key> <subkey>")
		fmt.Println(mustValue(db.DExists(args[0], args[1])))

	case "dkeys":
		requireArgs(args, 1, "dkeys <key>")
		subkeys := mustValue(db.DKeys(args[0]))
		sort.Strings(subkeys)
		for _, subkey := range subkeys {
			fmt.Println(subkey)
		}

	case "dvals":
		requireArgs(args, 1, "dvals <key>")
		values := mustValue(db.DVals(args[0]))
		sort.Strings(values)
		for _, value := range values {
			fmt.Println(value)
		}

	case "dmerge":
		requireArgs(args, 2, "dmerge <key1> <key2>")
		must(db.DMerge(args[0], args[1]))
		persist(db, cfg.AutoDump)
		fmt.Printf("Merged '%s' into '%s'\n", args[1], args[0])

	case "stats":
		handleStats(db, cfg)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	snapshot := db.GetMetrics()
	slogger.Debug("session metrics",
		"reads", snapshot.ReadCount,
		"writes", snapshot.WriteCount,
		"dumps", snapshot.DumpCount)
}

func handleGet(db kv.Store, key string) {
	value, ok := db.Get(key)
	if !ok {
		fmt.Printf("Key '%s' not found\n", key)
		os.Exit(1)
	}

	fmt.Println(value)
}

func handleStats(db kv.Store, cfg *config.Config) {
	fmt.Printf("Backend: %s\n", cfg.Backend)
	fmt.Printf("Keys:    %s\n", humanize.Comma(int64(db.TotalKeys())))

	if cfg.Backend == "memory" {
		return
	}

	fmt.Printf("Path:    %s\n", cfg.DBPath)

	if info, err := os.Stat(cfg.DBPath); err == nil {
		fmt.Printf("Size:    %s\n", humanize.Bytes(uint64(info.Size())))
	} else {
		fmt.Println("Size:    not dumped yet")
	}
}

// persist saves mutations made by single-shot commands. With auto-dump on,
// the mutator already persisted and a second dump would be redundant.
func persist(db kv.Store, autoDump bool) {
	if autoDump {
		return
	}

	must(db.Dump())
}

func requireArgs(args []string, n int, usage string) {
	if len(args) < n {
		fmt.Printf("Usage: achar-cli %s\n", usage)
		os.Exit(1)
	}
}

func parseIndex(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Invalid index %q: %v", s, err)
	}

	return n
}

func must(err error) {
	if err != nil {
		log.Fatalf("Command failed: %v", err)
	}
}

func mustValue[T any](value T, err error) T {
	must(err)
	return value
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  achar-cli get|set|append|rem|exists <key> [value]")
	fmt.Println("  achar-cli keys|total|clear|dump|stats")
	fmt.Println("  achar-cli lcreate|ladd|lextend|lall|lrange|lpop|lremvalue|lremlist <key> [args]")
	fmt.Println("  achar-cli dcreate|dadd|dget|dall|dpop|drem|dexists|dkeys|dvals|dmerge <key> [args]")
	fmt.Println("")
	fmt.Println("Environment variables:")
	fmt.Println("  ACHAR_CONFIG    - optional YAML config file")
	fmt.Println("  ACHAR_DB_PATH   - database file path (default: achar.db)")
	fmt.Println("  ACHAR_BACKEND   - file, bolt or memory (default: file)")
	fmt.Println("  ACHAR_AUTO_DUMP - dump after every mutation (default: false)")
	fmt.Println("  ACHAR_LOG_LEVEL - DEBUG, INFO, WARN or ERROR (default: INFO)")
}
