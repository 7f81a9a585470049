// Package eth sends SHARP token payouts as ERC-20 transfers from the platform
// hot wallet.
package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"
)

const erc20ABI = `[
	{"name":"transfer","type":"function","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"type":"bool"}]},
	{"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"type":"uint256"}]}
]`

// ErrNotConfirmed means the transaction was sent but confirmation did not
// arrive inside the timeout. The returned receipt carries the hash; the
// ledger row stays pending until the reconciler finds the mined receipt.
var ErrNotConfirmed = errors.New("transfer sent but not confirmed in time")

// Receipt is the confirmation of a payout send.
type Receipt struct {
	TxHash      string
	BlockNumber int64
}

// Transferer is what the score orchestrator needs from the chain layer.
type Transferer interface {
	// Transfer sends amount tokens to a 0x address and waits for the
	// transaction to be mined, bounded by the client's timeout.
	Transfer(ctx context.Context, toAddress string, amount float64) (*Receipt, error)
}

type Client struct {
	ec      *ethclient.Client
	token   common.Address
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
	abi     abi.ABI
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(rpcURL, tokenAddress, privateKeyHex string, chainID int64, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if !IsValidAddress(tokenAddress) {
		return nil, fmt.Errorf("invalid token contract address %q", tokenAddress)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse payout private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}

	ec, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	return &Client{
		ec:      ec,
		token:   common.HexToAddress(tokenAddress),
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: big.NewInt(chainID),
		abi:     parsed,
		timeout: timeout,
		log:     log,
	}, nil
}

func (c *Client) Close() {
	c.ec.Close()
}

func (c *Client) Transfer(ctx context.Context, toAddress string, amount float64) (*Receipt, error) {
	if !IsValidAddress(toAddress) {
		return nil, fmt.Errorf("invalid destination address %q", toAddress)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.abi.Pack("transfer", common.HexToAddress(toAddress), ToWei(amount))
	if err != nil {
		return nil, fmt.Errorf("pack transfer call: %w", err)
	}

	nonce, err := c.ec.PendingNonceAt(ctx, c.from)
	if err != nil {
		return nil, fmt.Errorf("fetch nonce: %w", err)
	}

	gasPrice, err := c.ec.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("suggest gas price: %w", err)
	}

	gasLimit, err := c.ec.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.token,
		Data: data,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTransaction(nonce, c.token, big.NewInt(0), gasLimit, gasPrice, data)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign tx: %w", err)
	}

	if err := c.ec.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("send tx: %w", err)
	}

	c.log.Info("token transfer sent",
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.String("to", toAddress),
		zap.Float64("amount", amount),
	)

	receipt, err := bind.WaitMined(ctx, c.ec, signed)
	if errors.Is(err, context.DeadlineExceeded) {
		return &Receipt{TxHash: signed.Hash().Hex()}, ErrNotConfirmed
	}
	if err != nil {
		return nil, fmt.Errorf("wait mined %s: %w", signed.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transfer %s reverted", signed.Hash().Hex())
	}

	return &Receipt{
		TxHash:      signed.Hash().Hex(),
		BlockNumber: receipt.BlockNumber.Int64(),
	}, nil
}

// ReceiptFor looks up the mined receipt for a known hash. The second return
// is false while the transaction is still in flight.
func (c *Client) ReceiptFor(ctx context.Context, txHash string) (*Receipt, bool, error) {
	receipt, err := c.ec.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err == ethereum.NotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, true, fmt.Errorf("transfer %s reverted", txHash)
	}
	return &Receipt{TxHash: txHash, BlockNumber: receipt.BlockNumber.Int64()}, true, nil
}

// ToWei converts a token amount to base units at 18 decimals. Amounts are
// truncated past six fractional digits, matching how rewards are issued.
func ToWei(amount float64) *big.Int {
	micro := big.NewInt(int64(math.Round(amount * 1e6)))
	return micro.Mul(micro, big.NewInt(1e12))
}

// IsValidAddress reports whether s is exactly 0x followed by 40 hex
// characters, the only payout format accepted.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && len(s) == 42 && common.IsHexAddress(s)
}
