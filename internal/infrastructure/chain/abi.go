// Package chain implementa el puerto Ledger contra el contrato de inventario (go-ethereum)
// y una versión en memoria para desarrollo.
package chain

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/jhoicas/restock-api/internal/domain/entity"
)

// Métodos del contrato de inventario.
const (
	methodProducts      = "products"
	methodAddOrUpdate   = "addOrUpdateProduct"
	methodRestock       = "restock"
	methodApplyDiscount = "applyDiscount"
)

//go:embed inventory_abi.json
var defaultABI []byte

// LoadABI parsea la ABI desde path; vacío usa la ABI embebida del contrato de inventario.
// Verifica que estén los cuatro métodos que usa el adaptador.
func LoadABI(path string) (abi.ABI, error) {
	raw := defaultABI
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("leer ABI %s: %w", path, err)
		}
		raw = b
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parsear ABI: %w", err)
	}
	for _, m := range []string{methodProducts, methodAddOrUpdate, methodRestock, methodApplyDiscount} {
		if _, ok := parsed.Methods[m]; !ok {
			return abi.ABI{}, fmt.Errorf("la ABI no define el método %s", m)
		}
	}
	return parsed, nil
}

// decodeProduct convierte la salida de products(uint256):
// (productId, quantity, lastUpdated, discountApplied).
func decodeProduct(out []any) (*entity.ProductState, error) {
	if len(out) != 4 {
		return nil, fmt.Errorf("products devolvió %d valores, se esperaban 4", len(out))
	}
	id, ok1 := out[0].(*big.Int)
	qty, ok2 := out[1].(*big.Int)
	updated, ok3 := out[2].(*big.Int)
	discount, ok4 := out[3].(bool)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, fmt.Errorf("tipos inesperados en products: %T %T %T %T", out[0], out[1], out[2], out[3])
	}
	if !qty.IsInt64() || !id.IsInt64() || !updated.IsInt64() {
		return nil, fmt.Errorf("valor fuera de rango int64 en products")
	}
	state := &entity.ProductState{
		ProductID:       id.Int64(),
		Quantity:        qty.Int64(),
		DiscountApplied: discount,
	}
	if ts := updated.Int64(); ts > 0 {
		state.LastUpdated = time.Unix(ts, 0).UTC()
	}
	return state, nil
}
