package utils

import (
	"os"
	"strconv"
	"time"
)

// Community watch-order dataset (raw JSON document).
const defaultDatasetURL = "https://raw.githubusercontent.com/watchhub/watch-orders/main/watch-orders.json"

type ServerConfig struct {
	HTTPAddr     string
	TCPAddr      string
	DatasetURL   string
	AnilistURL   string
	AnilistToken string
	FetchTimeout time.Duration
}

func LoadServerConfig() ServerConfig {
	addr := os.Getenv("WATCHHUB_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	tcpAddr := os.Getenv("WATCHHUB_TCP_ADDR")
	if tcpAddr == "" {
		tcpAddr = ":7070"
	}

	datasetURL := os.Getenv("WATCHHUB_DATASET_URL")
	if datasetURL == "" {
		// dev default; point at mirror-server for offline runs
		datasetURL = defaultDatasetURL
	}

	anilistURL := os.Getenv("WATCHHUB_ANILIST_URL")
	if anilistURL == "" {
		anilistURL = "https://graphql.anilist.co"
	}

	timeout := 10 * time.Second
	if s := os.Getenv("WATCHHUB_FETCH_TIMEOUT_SECONDS"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}

	return ServerConfig{
		HTTPAddr:     addr,
		TCPAddr:      tcpAddr,
		DatasetURL:   datasetURL,
		AnilistURL:   anilistURL,
		AnilistToken: os.Getenv("WATCHHUB_ANILIST_TOKEN"),
		FetchTimeout: timeout,
	}
}
