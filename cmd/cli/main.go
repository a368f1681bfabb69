package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"watchhub/pkg/models"
)

const defaultBaseURL = "http://localhost:8080"

type lookupResponse struct {
	MediaID int                  `json:"media_id"`
	Found   bool                 `json:"found"`
	Series  string               `json:"series,omitempty"`
	Order   string               `json:"order,omitempty"`
	Items   []models.DisplayItem `json:"items"`
}

func main() {
	global := flag.NewFlagSet("watchhub", flag.ExitOnError)
	baseURL := global.String("api", defaultBaseURL, "API base URL")
	if err := global.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	args := global.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	cmd := args[0]
	sub := ""
	if len(args) > 1 {
		sub = args[1]
	}

	client := &http.Client{Timeout: 15 * time.Second}

	switch cmd {
	case "order":
		handleOrder(ctx, client, *baseURL, sub, args[2:])
	case "series":
		handleSeries(ctx, client, *baseURL, sub, args[2:])
	case "session":
		handleSession(ctx, client, *baseURL, sub, args[2:])
	case "notify":
		handleNotify(*baseURL, sub, args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func handleOrder(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "lookup":
		fs := flag.NewFlagSet("order lookup", flag.ExitOnError)
		id := fs.Int("id", 0, "anilist id")
		asJSON := fs.Bool("json", false, "print the raw response")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("a positive -id is required")
		}

		var resp lookupResponse
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/orders/"+strconv.Itoa(*id), nil, &resp); err != nil {
			log.Fatalf("lookup failed: %v", err)
		}
		if *asJSON {
			printJSON(resp)
			return
		}
		printLookup(resp)
	default:
		log.Fatal("usage: watchhub order lookup -id <anilist id>")
	}
}

func handleSeries(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "list":
		fs := flag.NewFlagSet("series list", flag.ExitOnError)
		_ = fs.Parse(args)

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/series", nil, &resp); err != nil {
			log.Fatalf("list failed: %v", err)
		}
		printJSON(resp)
	default:
		log.Fatal("usage: watchhub series list")
	}
}

func handleSession(ctx context.Context, client *http.Client, baseURL, sub string, args []string) {
	switch sub {
	case "show":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodGet, baseURL+"/session", nil, &resp); err != nil {
			log.Fatalf("show failed: %v", err)
		}
		printJSON(resp)
	case "lookup":
		fs := flag.NewFlagSet("session lookup", flag.ExitOnError)
		id := fs.Int("id", 0, "anilist id")
		_ = fs.Parse(args)
		if *id <= 0 {
			log.Fatal("a positive -id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/session/lookup/"+strconv.Itoa(*id), nil, &resp); err != nil {
			log.Fatalf("lookup failed: %v", err)
		}
		printJSON(resp)
	case "link":
		fs := flag.NewFlagSet("session link", flag.ExitOnError)
		linkURL := fs.String("url", "", "link to stage for confirmation")
		_ = fs.Parse(args)
		if *linkURL == "" {
			log.Fatal("-url is required")
		}

		payload := map[string]string{"url": *linkURL}
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/session/links", payload, &resp); err != nil {
			log.Fatalf("link failed: %v", err)
		}
		printJSON(resp)
	case "confirm":
		fs := flag.NewFlagSet("session confirm", flag.ExitOnError)
		id := fs.String("id", "", "confirmation id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/session/links/"+url.PathEscape(*id)+"/confirm", nil, &resp); err != nil {
			log.Fatalf("confirm failed: %v", err)
		}
		printJSON(resp)
	case "cancel":
		fs := flag.NewFlagSet("session cancel", flag.ExitOnError)
		id := fs.String("id", "", "confirmation id")
		_ = fs.Parse(args)
		if *id == "" {
			log.Fatal("-id is required")
		}

		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodPost, baseURL+"/session/links/"+url.PathEscape(*id)+"/cancel", nil, &resp); err != nil {
			log.Fatalf("cancel failed: %v", err)
		}
		printJSON(resp)
	case "dismiss":
		var resp map[string]any
		if err := doJSON(ctx, client, http.MethodDelete, baseURL+"/session/confirmation", nil, &resp); err != nil {
			log.Fatalf("dismiss failed: %v", err)
		}
		printJSON(resp)
	case "watch":
		fs := flag.NewFlagSet("session watch", flag.ExitOnError)
		addr := fs.String("addr", "127.0.0.1:7070", "TCP feed address")
		pretty := fs.Bool("pretty", true, "pretty print JSON events")
		_ = fs.Parse(args)
		for {
			if err := runFeedTCP(*addr, *pretty); err != nil {
				log.Printf("[session] disconnected: %v", err)
			}
			time.Sleep(1 * time.Second)
		}
	default:
		log.Fatal("usage: watchhub session <show|lookup|link|confirm|cancel|dismiss|watch>")
	}
}

func handleNotify(baseURL, sub string, args []string) {
	switch sub {
	case "subscribe":
		fs := flag.NewFlagSet("notify subscribe", flag.ExitOnError)
		wsURL := fs.String("ws", "", "WebSocket URL (defaults to /ws on API host)")
		_ = fs.Parse(args)

		endpoint := *wsURL
		if endpoint == "" {
			var err error
			endpoint, err = websocketURL(baseURL, "/ws")
			if err != nil {
				log.Fatalf("ws url: %v", err)
			}
		}
		if err := runWebSocket(endpoint); err != nil {
			log.Fatalf("subscribe failed: %v", err)
		}
	default:
		log.Fatal("usage: watchhub notify subscribe")
	}
}

func printLookup(resp lookupResponse) {
	if resp.Found {
		fmt.Printf("%s / %s\n\n", resp.Series, resp.Order)
	}
	step := 0
	for _, item := range resp.Items {
		switch item.Kind {
		case models.ItemTextBlock:
			if item.Block == nil {
				continue
			}
			fmt.Println(renderBlock(item.Block))
		case models.ItemAnime:
			if item.Media == nil {
				continue
			}
			step++
			fmt.Println(renderMedia(step, item.Media))
		}
	}
}

func renderBlock(block *models.Block) string {
	var b strings.Builder
	for _, chunk := range block.Chunks {
		if chunk.Kind == models.ChunkLink {
			fmt.Fprintf(&b, "%s (%s)", chunk.Content, chunk.Href)
			continue
		}
		b.WriteString(chunk.Content)
	}
	return b.String()
}

func renderMedia(step int, m *models.Media) string {
	var details []string
	if m.Format != "" {
		details = append(details, m.Format)
	}
	if m.SeasonYear > 0 {
		details = append(details, strconv.Itoa(m.SeasonYear))
	}
	if m.ListStatus != "" {
		details = append(details, m.ListStatus)
	}

	line := fmt.Sprintf("%2d. %s", step, m.Title)
	if len(details) > 0 {
		line += " [" + strings.Join(details, ", ") + "]"
	}
	if m.SiteURL != "" {
		line += "\n    " + m.SiteURL
	}
	return line
}

func runFeedTCP(addr string, pretty bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[session] connected to %s", addr)
	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for reader.Scan() {
		line := reader.Bytes()
		if !pretty {
			fmt.Println(string(line))
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			fmt.Println(string(line))
			continue
		}
		b, _ := json.MarshalIndent(obj, "", "  ")
		fmt.Println(string(b))
	}
	if err := reader.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}

func runWebSocket(wsURL string) error {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Printf("[notify] connected to %s", wsURL)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		fmt.Println(string(msg))
	}
}

func doJSON(ctx context.Context, client *http.Client, method, endpoint string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s", method, endpoint, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	return nil
}

func printJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("json: %v", err)
	}
	fmt.Println(string(b))
}

func printUsage() {
	fmt.Println("watchhub <command> [subcommand] [flags]")
	fmt.Println("commands:")
	fmt.Println("  order lookup -id <anilist id> [-json]")
	fmt.Println("  series list")
	fmt.Println("  session show|lookup|link|confirm|cancel|dismiss|watch")
	fmt.Println("  notify subscribe")
}
