package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wireboard/wireboard-server/internal/board"
	"github.com/wireboard/wireboard-server/internal/client"
	"github.com/wireboard/wireboard-server/internal/config"
	"github.com/wireboard/wireboard-server/internal/log"
	"github.com/wireboard/wireboard-server/internal/proto"
	"github.com/wireboard/wireboard-server/internal/session"
)

func clientCmd() *cobra.Command {
	var (
		apiBase  string
		wsURL    string
		roomID   string
		username string
	)

	cmd := &cobra.Command{
		Use:   "client",
		Short: "Run a headless board client against a relay",
		Long: "Joins a room and mirrors it locally. Commands:\n" +
			"  tool pencil|eraser|ellipse|cursor   select tool\n" +
			"  color <name>                        stroke color\n" +
			"  line x,y x,y ...                    draw a stroke through points\n" +
			"  ellipse x,y x,y                     drag an ellipse anchor->corner\n" +
			"  text x,y <content>                  place a text label\n" +
			"  undo | redo                         local undo/redo, mirrored to peers\n" +
			"  save | load                         snapshot via the HTTP API\n" +
			"  shapes | cursors                    inspect local state\n" +
			"  quit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(levelOrDefault())

			cfg, _, err := config.Load(logger, flagConfigPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if wsURL == "" {
				wsURL = cfg.SocketURL
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			api := &boardAPI{base: apiBase}

			user, err := api.register(ctx, username)
			if err != nil {
				return fmt.Errorf("register user: %w", err)
			}
			if roomID == "" {
				roomID, err = api.createRoom(ctx, user.ID)
				if err != nil {
					return fmt.Errorf("create room: %w", err)
				}
				fmt.Printf("created room %s\n", roomID)
			}

			conn := client.NewConnector(wsURL, roomID, logger)
			engine := client.NewEngine(roomID, user, conn, logger)

			frames := make(chan proto.Frame, 64)
			go func() {
				_ = conn.Run(ctx, func(frame proto.Frame) {
					select {
					case frames <- frame:
					case <-ctx.Done():
					}
				})
			}()

			lines := make(chan string)
			go func() {
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
				close(lines)
			}()

			fmt.Printf("joined room %s as %s\n", roomID, user.Name)

			// Single event loop: remote frames and local input interleave
			// here and nowhere else, so the engine needs no locking.
			for {
				select {
				case <-ctx.Done():
					return nil
				case frame := <-frames:
					engine.HandleFrame(frame)
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if quit := runInput(ctx, engine, api, line); quit {
						return nil
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&apiBase, "api", "http://localhost:8080", "HTTP API base URL")
	cmd.Flags().StringVar(&wsURL, "url", "", "relay websocket URL (default from config)")
	cmd.Flags().StringVar(&roomID, "room", "", "room id to join (default: create a new room)")
	cmd.Flags().StringVar(&username, "user", "cli-user", "username to register")

	return cmd
}

func levelOrDefault() string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	return "warn"
}

func runInput(ctx context.Context, engine *client.Engine, api *boardAPI, input string) (quit bool) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return false
	}

	switch fields[0] {
	case "quit", "exit":
		return true
	case "tool":
		if len(fields) == 2 {
			engine.Session.SetTool(session.Tool(fields[1]))
		}
	case "color":
		if len(fields) == 2 {
			engine.Session.SetColor(fields[1])
		}
	case "line", "ellipse":
		points := parsePoints(fields[1:])
		if len(points) < 2 {
			fmt.Println("need at least two x,y points")
			return false
		}
		if fields[0] == "ellipse" {
			engine.Session.SetTool(session.ToolEllipse)
		}
		engine.Session.PointerDown(points[0])
		for _, p := range points[1:] {
			engine.Session.PointerMove(p)
		}
		engine.Session.PointerUp()
	case "text":
		if len(fields) < 3 {
			fmt.Println("usage: text x,y <content>")
			return false
		}
		points := parsePoints(fields[1:2])
		if len(points) != 1 {
			fmt.Println("bad coordinate")
			return false
		}
		engine.Session.InsertText(points[0], strings.Join(fields[2:], " "))
	case "undo":
		if !engine.Undo() {
			fmt.Println("nothing to undo")
		}
	case "redo":
		if !engine.Redo() {
			fmt.Println("nothing to redo")
		}
	case "save":
		if err := api.saveBoard(ctx, engine); err != nil {
			fmt.Printf("save failed: %v\n", err)
		} else {
			fmt.Println("board saved")
		}
	case "load":
		if err := api.loadBoard(ctx, engine); err != nil {
			fmt.Printf("load failed: %v\n", err)
		} else {
			fmt.Println("board loaded")
		}
	case "shapes":
		snap := engine.Store.Snapshot()
		fmt.Printf("%d lines, %d ellipses, %d texts\n",
			len(snap.Lines), len(snap.Ellipses), len(snap.Texts))
	case "cursors":
		for _, c := range engine.Cursors.Cursors() {
			fmt.Printf("%s at (%.0f, %.0f)\n", c.UserName, c.Coord.X, c.Coord.Y)
		}
	default:
		fmt.Printf("unknown command %q\n", fields[0])
	}
	return false
}

func parsePoints(fields []string) []board.Point {
	points := make([]board.Point, 0, len(fields))
	for _, f := range fields {
		parts := strings.SplitN(f, ",", 2)
		if len(parts) != 2 {
			continue
		}
		x, errX := strconv.ParseFloat(parts[0], 64)
		y, errY := strconv.ParseFloat(parts[1], 64)
		if errX != nil || errY != nil {
			continue
		}
		points = append(points, board.Point{X: x, Y: y})
	}
	return points
}

// boardAPI is a thin wrapper over the room/user REST endpoints.
type boardAPI struct {
	base string
	http http.Client
}

func (a *boardAPI) register(ctx context.Context, username string) (client.User, error) {
	var resp struct {
		Data struct {
			ID       string `json:"id"`
			UserName string `json:"user_name"`
		} `json:"data"`
	}
	err := a.post(ctx, http.MethodPost, "/user", map[string]string{"username": username}, &resp)
	if err != nil {
		return client.User{}, err
	}
	return client.User{ID: resp.Data.ID, Name: resp.Data.UserName}, nil
}

func (a *boardAPI) createRoom(ctx context.Context, ownerID string) (string, error) {
	var resp struct {
		RoomID string `json:"roomId"`
	}
	err := a.post(ctx, http.MethodPost, "/room", map[string]string{"ownerId": ownerID}, &resp)
	if err != nil {
		return "", err
	}
	return resp.RoomID, nil
}

func (a *boardAPI) saveBoard(ctx context.Context, engine *client.Engine) error {
	snap := engine.Store.Snapshot()
	body := map[string]any{
		"roomId":        engine.RoomID(),
		"ownerId":       engine.UserID(),
		"boardLines":    snap.Lines,
		"boardEllipses": snap.Ellipses,
		"boardTexts":    snap.Texts,
	}
	return a.post(ctx, http.MethodPut, "/room", body, nil)
}

func (a *boardAPI) loadBoard(ctx context.Context, engine *client.Engine) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.base+"/room?roomId="+engine.RoomID(), nil)
	if err != nil {
		return err
	}
	res, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	var resp struct {
		Room struct {
			StageLines    []board.Line    `json:"stage_lines"`
			StageEllipses []board.Ellipse `json:"stage_ellipses"`
			StageTexts    []board.Text    `json:"stage_texts"`
		} `json:"room"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return err
	}
	engine.Store.Restore(board.Snapshot{
		Lines:    resp.Room.StageLines,
		Ellipses: resp.Room.StageEllipses,
		Texts:    resp.Room.StageTexts,
	})
	return nil
}

func (a *boardAPI) post(ctx context.Context, method, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
