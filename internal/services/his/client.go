// Package his talks XML-RPC to a hospital information system to prefill
// patient demographics during intake. Optional: without HIS_URL the
// metadata step is simply typed by hand.
package his

import (
	"fmt"

	"github.com/kolo/xmlrpc"
)

// Client represents a HIS XML-RPC client
type Client struct {
	URL       string
	Database  string
	Username  string
	Password  string
	Uid       int
	CommonURL string
	ObjectURL string
}

// Demographics is the patient block the HIS returns for an MRN.
type Demographics struct {
	MRN  string `json:"mrn"`
	Name string `json:"name"`
	Age  int    `json:"age"`
	Sex  string `json:"sex"`
}

// NewClient creates a new HIS client
func NewClient(url, db, username, password string) *Client {
	return &Client{
		URL:       url,
		Database:  db,
		Username:  username,
		Password:  password,
		CommonURL: fmt.Sprintf("%s/xmlrpc/2/common", url),
		ObjectURL: fmt.Sprintf("%s/xmlrpc/2/object", url),
	}
}

// Authenticate authenticates with the HIS and caches the user ID
func (c *Client) Authenticate() (int, error) {
	client, err := xmlrpc.NewClient(c.CommonURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{c.Database, c.Username, c.Password, make([]interface{}, 0)}
	var uid int
	if err := client.Call("authenticate", args, &uid); err != nil {
		return 0, fmt.Errorf("HIS authentication failed: %w", err)
	}

	c.Uid = uid
	return uid, nil
}

// LookupPatient fetches demographics for a medical record number.
func (c *Client) LookupPatient(mrn string) (*Demographics, error) {
	if c.Uid == 0 {
		if _, err := c.Authenticate(); err != nil {
			return nil, err
		}
	}

	client, err := xmlrpc.NewClient(c.ObjectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create XML-RPC client: %w", err)
	}
	defer client.Close()

	args := []interface{}{
		c.Database,
		c.Uid,
		c.Password,
		"patient.demographics",
		"search_read",
		[]interface{}{
			[]interface{}{[]interface{}{"mrn", "=", mrn}},
		},
		map[string]interface{}{
			"fields": []string{"mrn", "name", "age", "sex"},
			"limit":  1,
		},
	}

	var raw []map[string]interface{}
	if err := client.Call("execute_kw", args, &raw); err != nil {
		return nil, fmt.Errorf("failed to execute search_read: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("no HIS record for MRN %q", mrn)
	}

	rec := raw[0]
	d := &Demographics{MRN: mrn}
	if v, ok := rec["name"].(string); ok {
		d.Name = v
	}
	if v, ok := rec["sex"].(string); ok {
		d.Sex = v
	}
	switch v := rec["age"].(type) {
	case int:
		d.Age = v
	case int64:
		d.Age = int(v)
	case float64:
		d.Age = int(v)
	}
	return d, nil
}
