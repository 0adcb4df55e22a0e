// =============================================================================
// BATTLE REFEREE - SPECTATOR
// =============================================================================
// This standalone process consumes the out-of-process battle feed:
//   - Connects to the referee's IPC socket
//   - Logs each streaming frame / final battle log as it arrives
//
// This separation keeps a slow or crashing consumer from ever touching the
// referee's tick loop.
//
// USAGE:
//   1. Start the referee first: go run ./cmd/referee
//   2. Then start this spectator: go run ./cmd/spectator
// =============================================================================
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fight-club/internal/battle"
	"fight-club/internal/fight"
	"fight-club/internal/ipc"

	"github.com/joho/godotenv"
)

func main() {
	socketPath := flag.String("socket", ipc.DefaultSocketPath, "referee IPC socket path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.Println("================================")
	log.Println("  BATTLE REFEREE - SPECTATOR")
	log.Println("================================")
	log.Printf("IPC Socket: %s", *socketPath)

	subscriber := ipc.NewSubscriber(*socketPath)

	connected := false
	subscriber.OnConnect(func() {
		log.Println("Connected to referee")
		connected = true
	})
	subscriber.OnDisconnect(func() {
		log.Println("Disconnected from referee")
		connected = false
	})
	subscriber.OnPayload(logPayload)

	log.Println("Connecting to referee...")
	if err := subscriber.Start(); err != nil {
		log.Fatalf("Failed to start IPC subscriber: %v", err)
	}

	for i := 0; i < 30; i++ {
		if subscriber.IsConnected() {
			break
		}
		time.Sleep(time.Second)
	}
	if !subscriber.IsConnected() {
		log.Println("WARNING: could not connect to referee, will keep retrying")
	}

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			received, reconnects, errors := subscriber.GetStats()
			log.Printf("IPC: payloads=%d, reconnects=%d, errors=%d, connected=%v",
				received, reconnects, errors, connected)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Spectator ready! Press Ctrl+C to stop.")
	<-quit

	log.Println("Shutting down spectator...")
	subscriber.Stop()
	log.Println("Spectator stopped!")
}

func logPayload(payload any) {
	switch v := payload.(type) {
	case fight.StreamingFrame:
		log.Printf("frame %d @ t=%.1f: %d items, %d crafts",
			v.CurrentFrame, v.CurrentGameTime, len(v.FightItems), len(v.CraftItems))
	case battle.Log:
		result := "none"
		if v.Result != nil {
			result = string(v.Result.DefeatReason)
		}
		log.Printf("final battle log: %d frames, result=%s", len(v.Frames), result)
		if b, err := json.Marshal(v); err == nil {
			log.Printf("battle log payload: %s", b)
		}
	default:
		log.Printf("unrecognized battle payload: %T", payload)
	}
}
