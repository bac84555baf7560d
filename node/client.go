package node

import (
	"context"
	"strconv"

	"marketscan/common/model"
	"marketscan/common/types"
)

// Header eth_getBlockByNumber返回的区块头字段子集
type Header struct {
	Number     types.Uint64 `json:"number"`     //区块号
	Hash       types.Hash   `json:"hash"`       //区块哈希
	ParentHash types.Hash   `json:"parentHash"` //父区块哈希
	Timestamp  types.Uint64 `json:"timestamp"`  //时间戳
}

func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var result string
	err := c.CallContext(ctx, &result, "eth_blockNumber")
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(result[2:], 16, 64)
}

// FilterLogs implements the eth_getLogs interface, the filter is passed through as is
func (c *Client) FilterLogs(ctx context.Context, filter map[string]interface{}) ([]*model.EventLog, error) {
	var logs []*model.EventLog
	err := c.CallContext(ctx, &logs, "eth_getLogs", filter)
	return logs, err
}

func (c *Client) CallContract(ctx context.Context, msg map[string]interface{}, blockNumber *types.BigInt) (types.Data, error) {
	var hex types.Data
	err := c.CallContext(ctx, &hex, "eth_call", msg, toBlockNumArg(blockNumber))
	if err != nil {
		return "", err
	}
	return hex, nil
}

func toBlockNumArg(number *types.BigInt) string {
	if number == nil {
		return "latest"
	}
	if *number == "-1" {
		return "pending"
	}
	return number.Hex()
}
