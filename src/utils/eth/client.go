package eth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/pumasi/core/src/utils/config"
	"github.com/pumasi/core/src/utils/logger"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sirupsen/logrus"
)

// TxHandle identifies a submitted ledger call
type TxHandle struct {
	Hash common.Hash
}

func (self TxHandle) String() string {
	return self.Hash.Hex()
}

// Client talks to the three marketplace contracts over JSON-RPC.
// All writes are signed locally with the configured key.
type Client struct {
	config *config.Config
	log    *logrus.Entry

	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	from    common.Address
	chainId *big.Int

	jobFactory          common.Address
	applicationRegistry common.Address
	arbitration         common.Address
}

func NewClient(config *config.Config) (self *Client, err error) {
	self = new(Client)
	self.config = config
	self.log = logger.NewSublogger("eth-client")
	self.chainId = big.NewInt(config.Ledger.ChainId)
	self.jobFactory = common.HexToAddress(config.Ledger.JobFactoryAddress)
	self.applicationRegistry = common.HexToAddress(config.Ledger.ApplicationRegistryAddress)
	self.arbitration = common.HexToAddress(config.Ledger.ArbitrationAddress)

	self.client, err = ethclient.Dial(config.Ledger.RpcUrl)
	if err != nil {
		self.log.WithError(err).Error("Cannot dial RPC endpoint")
		return
	}

	if config.Ledger.PrivateKey != "" {
		self.key, err = crypto.HexToECDSA(strings.TrimPrefix(config.Ledger.PrivateKey, "0x"))
		if err != nil {
			self.log.WithError(err).Error("Cannot parse private key")
			return
		}
		self.from = crypto.PubkeyToAddress(self.key.PublicKey)
	}

	return
}

// Address of the signing account
func (self *Client) From() common.Address {
	return self.from
}

func (self *Client) Close() {
	self.client.Close()
}

// submit packs, dry-runs, signs and sends one contract call.
// The dry-run surfaces revert reasons before anything hits the mempool.
func (self *Client) submit(ctx context.Context, contract common.Address, contractAbi abi.ABI, method string, args ...interface{}) (handle TxHandle, err error) {
	if self.key == nil {
		err = errors.New("no signing key configured")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, self.config.Ledger.RequestTimeout)
	defer cancel()

	data, err := contractAbi.Pack(method, args...)
	if err != nil {
		return
	}

	call := ethereum.CallMsg{
		From: self.from,
		To:   &contract,
		Data: data,
	}

	_, err = self.client.CallContract(ctx, call, nil)
	if err != nil {
		err = decodeRevert(err)
		return
	}

	gasLimit, err := self.client.EstimateGas(ctx, call)
	if err != nil {
		err = decodeRevert(err)
		return
	}

	gasPrice, err := self.client.SuggestGasPrice(ctx)
	if err != nil {
		return
	}

	nonce, err := self.client.PendingNonceAt(ctx, self.from)
	if err != nil {
		return
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(self.chainId), self.key)
	if err != nil {
		return
	}

	err = self.client.SendTransaction(ctx, signed)
	if err != nil {
		err = decodeRevert(err)
		return
	}

	handle = TxHandle{Hash: signed.Hash()}
	self.log.WithField("method", method).WithField("tx", handle.String()).Debug("Submitted call")
	return
}
