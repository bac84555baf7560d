package node

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

var NotFound = fmt.Errorf("not found")

// Client defines typed wrappers for the Ethereum RPC API.
type Client struct {
	*rpc.Client
}

// Dial connects a client to the given URL.
func Dial(rawurl string) (*Client, error) {
	client, err := rpc.Dial(rawurl)
	if err != nil {
		return nil, err
	}
	return &Client{client}, nil
}
