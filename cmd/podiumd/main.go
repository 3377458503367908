// Command podiumd runs the wallet registry daemon: LevelDB-backed state,
// a signed-call host, and a JSON-RPC endpoint with a websocket event stream.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/veynar/podium/config"
	"github.com/veynar/podium/events"
	"github.com/veynar/podium/history"
	"github.com/veynar/podium/host"
	"github.com/veynar/podium/registry"
	"github.com/veynar/podium/rpc"
	"github.com/veynar/podium/storage"
	"github.com/veynar/podium/stream"
	"github.com/veynar/podium/wallet"

	// Import host modules to trigger their init() self-registration.
	_ "github.com/veynar/podium/host/modules/contest"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to config file")
	keyPath := flag.String("key", "participant.key", "path to keystore file (with -genkey)")
	genKey := flag.Bool("genkey", false, "generate a new participant key and exit")
	flag.Parse()

	// Read keystore password from environment (not CLI flags — they leak via ps).
	password := os.Getenv("PODIUM_PASSWORD")

	// ---- generate key mode ----
	if *genKey {
		if password == "" {
			log.Println("WARNING: PODIUM_PASSWORD not set — keystore will use an empty password")
		}
		w, err := wallet.Generate()
		if err != nil {
			log.Fatal(err)
		}
		if err := wallet.SaveKey(*keyPath, password, w.PrivKey()); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Generated key. Public key: %s\n", w.PubKey())
		fmt.Printf("Registry address: %s\n", w.Address())
		fmt.Printf("Saved to: %s\n", *keyPath)
		return
	}

	// ---- load config ----
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- open DB ----
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("mkdir data dir: %v", err)
	}
	db, err := storage.NewLevelDB(cfg.DataDir + "/registry")
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	// ---- registry state ----
	repo := registry.NewRepository(db)
	store := registry.NewStore(repo)

	// ---- events ----
	emitter := events.NewEmitter()

	// ---- history ----
	hist := history.New(db, emitter)

	// ---- event stream ----
	hub := stream.NewHub(emitter)
	defer hub.Close()

	// ---- host dispatcher ----
	dispatcher := host.NewDispatcher(store, emitter)

	// ---- TLS ----
	tlsCfg, err := config.LoadTLSConfig(cfg.TLS)
	if err != nil {
		log.Fatalf("tls: %v", err)
	}
	if tlsCfg != nil {
		log.Println("TLS enabled for RPC")
	}

	// ---- RPC ----
	rpcAddr := fmt.Sprintf(":%d", cfg.RPCPort)
	rpcHandler := rpc.NewHandler(dispatcher, store, hist)
	rpcServer := rpc.NewServer(rpcAddr, rpcHandler, cfg.RPCAuthToken, hub.Handler(), tlsCfg)
	if err := rpcServer.Start(); err != nil {
		log.Fatalf("rpc start: %v", err)
	}
	defer rpcServer.Stop()
	log.Printf("RPC listening on %s", rpcAddr)
	if cfg.RPCAuthToken != "" {
		log.Println("RPC Bearer token authentication enabled")
	}

	// ---- graceful shutdown ----
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("Shutting down...")
	// Deferred calls run in LIFO: rpcServer.Stop → hub.Close → db.Close
}
