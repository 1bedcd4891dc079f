package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/jhoicas/restock-api/internal/application/ports"
	"github.com/jhoicas/restock-api/internal/domain"
	"github.com/jhoicas/restock-api/internal/domain/entity"
	"github.com/jhoicas/restock-api/pkg/config"
	"github.com/jhoicas/restock-api/pkg/logger"
)

var _ ports.Ledger = (*EthereumLedger)(nil)

// EthereumLedger adaptador del contrato de inventario vía JSON-RPC.
type EthereumLedger struct {
	client   *ethclient.Client
	contract *bind.BoundContract
	address  common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int

	gasUpsert, gasRestock, gasDiscount uint64
	receiptTimeout                     time.Duration

	// Serializa envíos: el nonce se toma de PendingNonceAt y dos envíos simultáneos chocarían.
	writeMu sync.Mutex
	log     *logger.Logger
}

// DialEthereum conecta al nodo y prepara el contrato. Sin clave privada el adaptador solo lee.
func DialEthereum(ctx context.Context, cfg config.LedgerConfig, log *logger.Logger) (*EthereumLedger, error) {
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("dirección de contrato inválida %q", cfg.ContractAddress)
	}
	var key *ecdsa.PrivateKey
	if cfg.PrivateKey != "" {
		k, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("clave privada inválida: %w", err)
		}
		key = k
	}
	parsed, err := LoadABI(cfg.ContractABIPath)
	if err != nil {
		return nil, err
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("%w: conectar a %s: %w", domain.ErrLedgerUnavailable, cfg.RPCURL, err)
	}
	chainID := big.NewInt(cfg.ChainID)
	if cfg.ChainID == 0 {
		id, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("%w: consultar chain id: %w", domain.ErrLedgerUnavailable, err)
		}
		chainID = id
	}

	address := common.HexToAddress(cfg.ContractAddress)
	l := &EthereumLedger{
		client:         client,
		contract:       bind.NewBoundContract(address, parsed, client, client, client),
		address:        address,
		key:            key,
		chainID:        chainID,
		gasUpsert:      cfg.GasLimitUpsert,
		gasRestock:     cfg.GasLimitRestock,
		gasDiscount:    cfg.GasLimitDiscount,
		receiptTimeout: cfg.ReceiptTimeout,
		log:            log.Named("ledger"),
	}
	if key != nil {
		l.from = crypto.PubkeyToAddress(key.PublicKey)
	}
	l.log.Info().Str("contract", address.Hex()).Str("chain_id", chainID.String()).
		Bool("writable", key != nil).Msg("ledger on-chain listo")
	return l, nil
}

// From cuenta que firma las transacciones (cero si el adaptador es de solo lectura).
func (l *EthereumLedger) From() common.Address { return l.from }

// Close cierra la conexión RPC.
func (l *EthereumLedger) Close() { l.client.Close() }

// ReadQuantity lee la cantidad registrada de un producto.
func (l *EthereumLedger) ReadQuantity(ctx context.Context, productID int64) (int64, error) {
	p, err := l.ReadProduct(ctx, productID)
	if err != nil {
		return 0, err
	}
	return p.Quantity, nil
}

// ReadProduct lee products(productId). Un producto nunca escrito devuelve ceros.
func (l *EthereumLedger) ReadProduct(ctx context.Context, productID int64) (*entity.ProductState, error) {
	var out []any
	if err := l.contract.Call(&bind.CallOpts{Context: ctx}, &out, methodProducts, big.NewInt(productID)); err != nil {
		return nil, fmt.Errorf("%w: producto %d: %w", domain.ErrLedgerRead, productID, err)
	}
	state, err := decodeProduct(out)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %d: %w", domain.ErrLedgerRead, productID, err)
	}
	return state, nil
}

// WriteQuantity llama addOrUpdateProduct(productId, quantity).
func (l *EthereumLedger) WriteQuantity(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	r, err := l.transact(ctx, methodAddOrUpdate, l.gasUpsert, big.NewInt(productID), big.NewInt(quantity))
	if err != nil {
		return nil, err
	}
	return l.toReceipt(r, entity.LedgerActionUpsert, productID, quantity), nil
}

// Restock llama restock(productId, quantity).
func (l *EthereumLedger) Restock(ctx context.Context, productID, quantity int64) (*entity.LedgerReceipt, error) {
	r, err := l.transact(ctx, methodRestock, l.gasRestock, big.NewInt(productID), big.NewInt(quantity))
	if err != nil {
		return nil, err
	}
	return l.toReceipt(r, entity.LedgerActionRestock, productID, quantity), nil
}

// ApplyDiscount llama applyDiscount(productId). El porcentaje no viaja al contrato.
func (l *EthereumLedger) ApplyDiscount(ctx context.Context, productID int64) (*entity.LedgerReceipt, error) {
	r, err := l.transact(ctx, methodApplyDiscount, l.gasDiscount, big.NewInt(productID))
	if err != nil {
		return nil, err
	}
	return l.toReceipt(r, entity.LedgerActionDiscount, productID, 0), nil
}

// transact firma, envía y espera el recibo. Solo retorna éxito con la transacción minada y status 1.
func (l *EthereumLedger) transact(ctx context.Context, method string, gas uint64, args ...any) (*types.Receipt, error) {
	if l.key == nil {
		return nil, fmt.Errorf("%w: sin clave privada configurada", domain.ErrLedgerUnavailable)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(l.key, l.chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: transactor: %w", domain.ErrLedgerWrite, err)
	}
	opts.Context = ctx
	opts.GasLimit = gas

	l.writeMu.Lock()
	tx, err := l.contract.Transact(opts, method, args...)
	l.writeMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLedgerWrite, method, err)
	}
	l.log.Debug().Str("method", method).Str("tx_hash", tx.Hash().Hex()).Msg("transacción enviada")

	wctx, cancel := context.WithTimeout(ctx, l.receiptTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(wctx, l.client, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("sin recibo tras %s: %w", l.receiptTimeout, err)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrLedgerWrite, method, tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s %s revertida en bloque %s", domain.ErrLedgerWrite, method, tx.Hash().Hex(), receipt.BlockNumber)
	}
	return receipt, nil
}

func (l *EthereumLedger) toReceipt(r *types.Receipt, action string, productID, quantity int64) *entity.LedgerReceipt {
	out := &entity.LedgerReceipt{
		TxHash:    r.TxHash.Hex(),
		BlockHash: r.BlockHash.Hex(),
		Status:    r.Status,
		GasUsed:   r.GasUsed,
		From:      l.from.Hex(),
		To:        l.address.Hex(),
		Action:    action,
		ProductID: productID,
		Quantity:  quantity,
	}
	if r.BlockNumber != nil {
		out.BlockNumber = r.BlockNumber.Uint64()
	}
	return out
}
