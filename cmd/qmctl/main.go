// qmctl is a small command-line client for the quartermaster API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const dateLayout = "2006-01-02"

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	c := &client{
		BaseURL: envOr("QM_URL", "http://localhost:8080"),
		Token:   os.Getenv("QM_TOKEN"),
	}

	var err error
	switch os.Args[1] {
	case "login":
		err = c.login(os.Args[2:])
	case "dashboard":
		err = c.dashboard(os.Args[2:])
	case "purchase":
		err = c.purchase(os.Args[2:])
	case "transfer":
		err = c.transfer(os.Args[2:])
	case "assign":
		err = c.assign(os.Args[2:])
	case "expend":
		err = c.expend(os.Args[2:])
	case "bases", "assets", "purchases", "transfers", "assignments", "expenditures":
		err = c.list("/api/" + os.Args[1])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: qmctl <command> [flags]

Commands:
  login      -u <username> -p <password>       print a session token
  dashboard  [-start -end -base -equipment]    metrics (default: last 30 days)
  purchase   -asset -base -qty -cost [-date -supplier -po]
  transfer   -asset -from -to -qty [-date -reason]
  assign     -asset -base -to [-date -purpose]
  expend     -asset -base -qty -reason [-date]
  bases | assets | purchases | transfers | assignments | expenditures

Environment: QM_URL (default http://localhost:8080), QM_TOKEN.
`)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

type client struct {
	BaseURL string
	Token   string
}

func (c *client) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// print pretty-prints a decoded JSON value to stdout.
func print(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *client) login(args []string) error {
	fs := newFlagSet("login")
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	fs.Parse(args)

	if *username == "" || *password == "" {
		return fmt.Errorf("username and password required")
	}

	var resp struct {
		Token string `json:"token"`
	}
	err := c.do("POST", "/api/auth/login",
		map[string]string{"username": *username, "password": *password}, &resp)
	if err != nil {
		return err
	}

	fmt.Println(resp.Token)
	return nil
}

func (c *client) dashboard(args []string) error {
	fs := newFlagSet("dashboard")
	start := fs.String("start", "", "window start (YYYY-MM-DD)")
	end := fs.String("end", "", "window end (YYYY-MM-DD)")
	base := fs.String("base", "", "base id filter")
	equipment := fs.String("equipment", "", "equipment type id filter")
	fs.Parse(args)

	// The engine requires an explicit window; default to the last 30 days.
	if *start == "" && *end == "" {
		now := time.Now()
		*end = now.Format(dateLayout)
		*start = now.AddDate(0, 0, -30).Format(dateLayout)
	}

	q := url.Values{}
	q.Set("start", *start)
	q.Set("end", *end)
	if *base != "" {
		q.Set("base_id", *base)
	}
	if *equipment != "" {
		q.Set("equipment_type_id", *equipment)
	}

	var metrics map[string]any
	if err := c.do("GET", "/api/dashboard?"+q.Encode(), nil, &metrics); err != nil {
		return err
	}
	return print(metrics)
}

func (c *client) purchase(args []string) error {
	fs := newFlagSet("purchase")
	asset := fs.String("asset", "", "asset id")
	base := fs.String("base", "", "receiving base id")
	qty := fs.Int("qty", 0, "quantity")
	cost := fs.String("cost", "", "unit cost")
	day := fs.String("date", time.Now().Format(dateLayout), "purchase date")
	supplier := fs.String("supplier", "", "supplier info")
	po := fs.String("po", "", "purchase order number")
	fs.Parse(args)

	var created map[string]any
	err := c.do("POST", "/api/purchases", map[string]any{
		"asset_id":              *asset,
		"receiving_base_id":     *base,
		"quantity":              *qty,
		"unit_cost":             *cost,
		"purchase_date":         *day,
		"supplier_info":         *supplier,
		"purchase_order_number": *po,
	}, &created)
	if err != nil {
		return err
	}
	return print(created)
}

func (c *client) transfer(args []string) error {
	fs := newFlagSet("transfer")
	asset := fs.String("asset", "", "asset id")
	from := fs.String("from", "", "source base id")
	to := fs.String("to", "", "destination base id")
	qty := fs.Int("qty", 0, "quantity")
	day := fs.String("date", time.Now().Format(dateLayout), "transfer date")
	reason := fs.String("reason", "", "reason")
	fs.Parse(args)

	var created map[string]any
	err := c.do("POST", "/api/transfers", map[string]any{
		"asset_id":            *asset,
		"source_base_id":      *from,
		"destination_base_id": *to,
		"quantity":            *qty,
		"transfer_date":       *day,
		"reason":              *reason,
	}, &created)
	if err != nil {
		return err
	}
	return print(created)
}

func (c *client) assign(args []string) error {
	fs := newFlagSet("assign")
	asset := fs.String("asset", "", "asset id")
	base := fs.String("base", "", "base of assignment id")
	to := fs.String("to", "", "assigned-to user id")
	day := fs.String("date", time.Now().Format(dateLayout), "assignment date")
	purpose := fs.String("purpose", "", "purpose")
	fs.Parse(args)

	var created map[string]any
	err := c.do("POST", "/api/assignments", map[string]any{
		"asset_id":              *asset,
		"base_of_assignment_id": *base,
		"assigned_to_user_id":   *to,
		"assignment_date":       *day,
		"purpose":               *purpose,
	}, &created)
	if err != nil {
		return err
	}
	return print(created)
}

func (c *client) expend(args []string) error {
	fs := newFlagSet("expend")
	asset := fs.String("asset", "", "asset id")
	base := fs.String("base", "", "base id")
	qty := fs.Int("qty", 0, "quantity expended")
	reason := fs.String("reason", "", "reason")
	day := fs.String("date", time.Now().Format(dateLayout), "expenditure date")
	fs.Parse(args)

	var created map[string]any
	err := c.do("POST", "/api/expenditures", map[string]any{
		"asset_id":          *asset,
		"base_id":           *base,
		"quantity_expended": *qty,
		"reason":            *reason,
		"expenditure_date":  *day,
	}, &created)
	if err != nil {
		return err
	}
	return print(created)
}

func (c *client) list(path string) error {
	var items []map[string]any
	if err := c.do("GET", path, nil, &items); err != nil {
		return err
	}
	return print(items)
}
