package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"fight-club/internal/api"
	"fight-club/internal/config"
	"fight-club/internal/envchannel"
	"fight-club/internal/fight"
	"fight-club/internal/ipc"

	"github.com/joho/godotenv"
)

func main() {
	descriptorPath := flag.String("descriptor", "battle.json", "path to the initial battle descriptor")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("💡 No .env file found, using environment variables only")
	} else {
		log.Println("✅ Loaded environment from .env")
	}

	log.Println("⚔️ ================================")
	log.Println("⚔️  BATTLE REFEREE")
	log.Println("⚔️ ================================")

	appConfig := config.Load()
	serverCfg := appConfig.Server
	limits := fight.Limits{
		MaxItems:          appConfig.Limits.MaxItems,
		MaxAgents:         appConfig.Limits.MaxAgents,
		MaxQueuedMessages: appConfig.Limits.MaxQueuedMessages,
	}
	log.Printf("🛡️ Resource limits: %d items, %d agents, %d queued messages",
		limits.MaxItems, limits.MaxAgents, limits.MaxQueuedMessages)

	debugCfg := api.DefaultObservabilityConfig()
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("⚠️ Debug server disabled: %v", err)
		}
	}

	// send_battle fans out to the in-process spectator broadcast and an
	// out-of-process IPC consumer simultaneously.
	channelSink := fight.NewChannelSink(appConfig.Limits.MaxQueuedMessages)

	publisher := ipc.NewPublisher(serverCfg.IPCSocketPath)
	if err := publisher.Start(); err != nil {
		log.Printf("⚠️ IPC publisher disabled: %v", err)
		publisher = nil
	}

	var sink fight.BattleSink
	if publisher != nil {
		sink = fight.NewMultiSink(channelSink, publisher)
	} else {
		sink = channelSink
	}

	envs := envchannel.NewRegistry()
	controller := newRefereeController(envs, sink, limits, appConfig.Match, *descriptorPath)

	server := api.NewServer(controller, channelSink.Payloads())

	mux := http.NewServeMux()
	mux.Handle("/", server.Router())
	mux.HandleFunc("/ws/env/", func(w http.ResponseWriter, r *http.Request) {
		envName := strings.TrimPrefix(r.URL.Path, "/ws/env/")
		if envName == "" {
			http.Error(w, "missing env name", http.StatusBadRequest)
			return
		}
		if err := envs.HandleConnect(envName, w, r); err != nil {
			log.Printf("⚠️ env connect failed for %q: %v", envName, err)
		}
	})

	addr := ":" + strconv.Itoa(serverCfg.Port)
	go func() {
		log.Printf("🌐 Referee API on http://localhost%s", addr)
		log.Printf("   - state:    http://localhost%s/api/state", addr)
		log.Printf("   - ws:       ws://localhost%s/ws", addr)
		log.Printf("   - env:      ws://localhost%s/ws/env/{name}", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("referee API server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("✅ Referee ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("🛑 Shutting down...")
	controller.StopMatch()
	server.Stop()
	if publisher != nil {
		publisher.Stop()
	}
	log.Println("👋 Goodbye!")
}
