// holdemctl is the reference control client: each subcommand maps onto one
// control-surface operation of a running holdemd.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdemd/internal/engine"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Server  string           `short:"s" default:"http://localhost:8080" help:"Server base URL"`

	Create    CreateCmd    `cmd:"" help:"Create a table"`
	List      ListCmd      `cmd:"" help:"List table ids"`
	Destroy   DestroyCmd   `cmd:"" help:"Destroy a table"`
	Join      JoinCmd      `cmd:"" help:"Seat a player at a table"`
	Leave     LeaveCmd     `cmd:"" help:"Remove a seat from a table"`
	Start     StartCmd     `cmd:"" help:"Start the next hand"`
	Act       ActCmd       `cmd:"" help:"Apply a player action"`
	State     StateCmd     `cmd:"" help:"Fetch a table snapshot"`
	God       GodCmd       `cmd:"" help:"Fetch the admin snapshot with all hole cards"`
	Reconnect ReconnectCmd `cmd:"" help:"Clear a seat's pending fold deadline"`
	Watch     WatchCmd     `cmd:"" help:"Stream snapshots over websocket"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdemctl"),
		kong.Description("Control client for a holdemd poker server"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

type CreateCmd struct {
	SmallBlind int `short:"S" default:"5" help:"Small blind"`
	BigBlind   int `short:"B" default:"10" help:"Big blind"`
	Ante       int `help:"Ante taken from every seat"`
	MaxSeats   int `short:"m" default:"6" help:"Maximum seats"`
}

func (c *CreateCmd) Run(cli *CLI) error {
	var res struct {
		TableID string `json:"tableId"`
	}
	err := call(cli, "POST", "/tables", map[string]any{
		"smallBlind": c.SmallBlind,
		"bigBlind":   c.BigBlind,
		"ante":       c.Ante,
		"maxSeats":   c.MaxSeats,
	}, &res)
	if err != nil {
		return err
	}
	fmt.Println(res.TableID)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(cli *CLI) error {
	var res struct {
		Tables []string `json:"tables"`
	}
	if err := call(cli, "GET", "/tables", nil, &res); err != nil {
		return err
	}
	for _, id := range res.Tables {
		fmt.Println(id)
	}
	return nil
}

type DestroyCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (c *DestroyCmd) Run(cli *CLI) error {
	return call(cli, "DELETE", "/tables/"+c.Table, nil, nil)
}

type JoinCmd struct {
	Table string `arg:"" help:"Table id"`
	Name  string `arg:"" help:"Display name"`
	Chips int    `arg:"" help:"Buy-in chips"`
}

func (c *JoinCmd) Run(cli *CLI) error {
	var res struct {
		Seat int `json:"seat"`
	}
	err := call(cli, "POST", "/tables/"+c.Table+"/join",
		map[string]any{"name": c.Name, "chips": c.Chips}, &res)
	if err != nil {
		return err
	}
	fmt.Println(res.Seat)
	return nil
}

type LeaveCmd struct {
	Table string `arg:"" help:"Table id"`
	Seat  int    `arg:"" help:"Seat index"`
}

func (c *LeaveCmd) Run(cli *CLI) error {
	return call(cli, "POST", "/tables/"+c.Table+"/leave", map[string]any{"seat": c.Seat}, nil)
}

type StartCmd struct {
	Table string `arg:"" help:"Table id"`
}

func (c *StartCmd) Run(cli *CLI) error {
	var snap engine.Snapshot
	if err := call(cli, "POST", "/tables/"+c.Table+"/start", nil, &snap); err != nil {
		return err
	}
	fmt.Print(renderSnapshot(&snap))
	return nil
}

type ActCmd struct {
	Table  string `arg:"" help:"Table id"`
	Seat   int    `arg:"" help:"Seat index"`
	Action string `arg:"" enum:"fold,check,call,bet,raise,all_in" help:"Action name"`
	Amount int    `arg:"" optional:"" help:"Bet size or raise-to total"`
}

func (c *ActCmd) Run(cli *CLI) error {
	var snap engine.Snapshot
	err := call(cli, "POST", "/tables/"+c.Table+"/act",
		map[string]any{"seat": c.Seat, "action": c.Action, "amount": c.Amount}, &snap)
	if err != nil {
		return err
	}
	fmt.Print(renderSnapshot(&snap))
	return nil
}

type StateCmd struct {
	Table string `arg:"" help:"Table id"`
	Seat  int    `short:"n" default:"-1" help:"Personalize for seat (-1 spectator)"`
}

func (c *StateCmd) Run(cli *CLI) error {
	path := "/tables/" + c.Table + "/state"
	if c.Seat >= 0 {
		path += fmt.Sprintf("?seat=%d", c.Seat)
	}
	var snap engine.Snapshot
	if err := call(cli, "GET", path, nil, &snap); err != nil {
		return err
	}
	fmt.Print(renderSnapshot(&snap))
	return nil
}

type GodCmd struct {
	Table string `arg:"" help:"Table id"`
	Token string `short:"t" env:"HOLDEMD_ADMIN_TOKEN" required:"" help:"Admin token"`
}

func (c *GodCmd) Run(cli *CLI) error {
	req, err := http.NewRequest("GET", cli.Server+"/tables/"+c.Table+"/god", nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Admin-Token", c.Token)
	var snap engine.Snapshot
	if err := send(req, &snap); err != nil {
		return err
	}
	fmt.Print(renderSnapshot(&snap))
	return nil
}

type ReconnectCmd struct {
	Table string `arg:"" help:"Table id"`
	Seat  int    `arg:"" help:"Seat index"`
}

func (c *ReconnectCmd) Run(cli *CLI) error {
	return call(cli, "POST", "/tables/"+c.Table+"/reconnect", map[string]any{"seat": c.Seat}, nil)
}

type WatchCmd struct {
	Table string `arg:"" help:"Table id"`
	Seat  int    `short:"n" default:"-1" help:"Subscribe as seat (-1 spectator)"`
	JSON  bool   `help:"Print raw JSON instead of rendering"`
}

func (c *WatchCmd) Run(cli *CLI) error {
	base, err := url.Parse(cli.Server)
	if err != nil {
		return err
	}
	switch base.Scheme {
	case "https":
		base.Scheme = "wss"
	default:
		base.Scheme = "ws"
	}
	base.Path = "/tables/" + c.Table + "/ws"
	if c.Seat >= 0 {
		base.RawQuery = fmt.Sprintf("seat=%d", c.Seat)
	}

	conn, _, err := websocket.DefaultDialer.Dial(base.String(), nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", base.String(), err)
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		if c.JSON {
			fmt.Println(string(data))
			continue
		}
		var snap engine.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			fmt.Fprintf(os.Stderr, "bad snapshot: %v\n", err)
			continue
		}
		fmt.Print(renderSnapshot(&snap))
	}
}

// call performs a JSON request against the control surface and decodes the
// response body into out (which may be nil).
func call(cli *CLI, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, cli.Server+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return send(req, out)
}

func send(req *http.Request, out any) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error  string `json:"error"`
			Reason string `json:"reason"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			if apiErr.Reason != "" {
				return fmt.Errorf("%s: %s", apiErr.Error, apiErr.Reason)
			}
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
