package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type Websocket struct {
	// Origins allowed to open a game connection. Empty means any.
	AllowedOrigins []string
}

type Rooms struct {
	// A room untouched for longer than TTL gets reclaimed on the next
	// sweep.
	TTL         time.Duration
	SweepPeriod time.Duration
}

type Config struct {
	HTTP      HTTPServer
	Websocket Websocket
	Rooms     Rooms
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := &Config{
		HTTP:      *newHTTP(),
		Websocket: *newWebsocket(),
		Rooms:     *newRooms(),
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg)
	return cfg
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "3001"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newWebsocket() *Websocket {
	raw := getenv("WS_ALLOWED_ORIGINS", "")
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return &Websocket{AllowedOrigins: origins}
}

func newRooms() *Rooms {
	return &Rooms{
		TTL:         getenvDuration("ROOM_TTL", 2*time.Hour),
		SweepPeriod: getenvDuration("ROOM_SWEEP_PERIOD", 10*time.Minute),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getenvDuration(key string, defaultValue time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Fatalf("%s invalid duration for %s : %v", logtag, key, err)
	}
	fmt.Printf("%s %s = %s\n", logtag, key, d)
	return d
}
