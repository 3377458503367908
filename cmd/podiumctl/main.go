// Command podiumctl signs registry calls with a local keystore and
// submits them to a podiumd JSON-RPC endpoint.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/veynar/podium/core"
	"github.com/veynar/podium/wallet"
)

const usage = `usage: podiumctl [flags] <command> [args]

commands:
  register              register the caller's wallet
  add-item <item>       append an item to the caller's inventory
  set-score <score>     replace the caller's score
  pick-winner           recompute and store the winner
  wallet [address]      show a wallet (defaults to the caller's)
  inventory [address]   show an inventory (defaults to the caller's)
  winner                show the current winner
  activity [address]    show a wallet's activity log
  winners               show the winner declaration history
`

func main() {
	rpcURL := flag.String("rpc", "http://localhost:8645", "podiumd RPC endpoint")
	keyPath := flag.String("key", "participant.key", "path to keystore file")
	token := flag.String("token", "", "RPC bearer token")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	c := &client{url: *rpcURL, token: *token, keyPath: *keyPath}

	if err := c.run(args[0], args[1:]); err != nil {
		log.Fatal(err)
	}
}

type client struct {
	url     string
	token   string
	keyPath string

	w *wallet.Wallet // lazily loaded
}

func (c *client) run(cmd string, args []string) error {
	switch cmd {
	case "register":
		return c.submit(func(w *wallet.Wallet) (*core.Call, error) { return w.Register() })

	case "add-item":
		if len(args) != 1 {
			return fmt.Errorf("usage: add-item <item>")
		}
		return c.submit(func(w *wallet.Wallet) (*core.Call, error) { return w.AddItem(args[0]) })

	case "set-score":
		if len(args) != 1 {
			return fmt.Errorf("usage: set-score <score>")
		}
		score, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("score: %w", err)
		}
		return c.submit(func(w *wallet.Wallet) (*core.Call, error) { return w.SetScore(score) })

	case "pick-winner":
		return c.submit(func(w *wallet.Wallet) (*core.Call, error) { return w.PickWinner() })

	case "wallet":
		addr, err := c.addressArg(args)
		if err != nil {
			return err
		}
		return c.query("getWallet", map[string]string{"address": addr})

	case "inventory":
		addr, err := c.addressArg(args)
		if err != nil {
			return err
		}
		return c.query("getInventory", map[string]string{"address": addr})

	case "winner":
		return c.query("getWinner", struct{}{})

	case "activity":
		addr, err := c.addressArg(args)
		if err != nil {
			return err
		}
		return c.query("getActivity", map[string]string{"address": addr})

	case "winners":
		return c.query("getWinnerHistory", struct{}{})

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// loadWallet opens the keystore, prompting the password from the environment.
func (c *client) loadWallet() (*wallet.Wallet, error) {
	if c.w != nil {
		return c.w, nil
	}
	priv, err := wallet.LoadKey(c.keyPath, os.Getenv("PODIUM_PASSWORD"))
	if err != nil {
		return nil, fmt.Errorf("load key %q: %w", c.keyPath, err)
	}
	c.w = wallet.New(priv)
	return c.w, nil
}

// addressArg resolves the optional address argument, defaulting to the
// caller's own registry address.
func (c *client) addressArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	w, err := c.loadWallet()
	if err != nil {
		return "", err
	}
	return w.Address(), nil
}

func (c *client) submit(build func(*wallet.Wallet) (*core.Call, error)) error {
	w, err := c.loadWallet()
	if err != nil {
		return err
	}
	call, err := build(w)
	if err != nil {
		return err
	}
	return c.query("submitCall", call)
}

// query performs a JSON-RPC call and prints the result as indented JSON.
func (c *client) query(method string, params any) error {
	body, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc %s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var rpcResp struct {
		Result json.RawMessage `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &rpcResp); err != nil {
		return fmt.Errorf("rpc %s decode: %w (raw: %s)", method, err, raw)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("rpc %s: %s (code %d)", method, rpcResp.Error.Message, rpcResp.Error.Code)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, rpcResp.Result, "", "  "); err != nil {
		fmt.Println(string(rpcResp.Result))
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
