package entity

import (
	"fmt"
	"math"
	"math/big"

	"multichain_wallet/internal/domain"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// maxMinorUnitBits bounds Amount and Balance to an unsigned 128-bit magnitude.
const maxMinorUnitBits = 128

// etherDecimals is the fixed exponent used by the float conversions, for every chain.
const etherDecimals = 18

var weiPerEther = new(big.Float).SetPrec(256).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)) //nolint:gochecknoglobals

var maxMinorUnits = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), maxMinorUnitBits), uint256.NewInt(1)) //nolint:gochecknoglobals

// minorUnits is a count of a chain's smallest unit (Wei, satoshi, lamport).
// All arithmetic and comparison happens here; float views are display only.
type minorUnits struct {
	v uint256.Int
}

func unitsFromBig(value *big.Int) (minorUnits, error) {
	if value == nil {
		return minorUnits{}, nil
	}
	if value.Sign() < 0 {
		return minorUnits{}, fmt.Errorf("negative value %s", value)
	}
	if value.BitLen() > maxMinorUnitBits {
		return minorUnits{}, fmt.Errorf("value %s exceeds 128 bits", value)
	}
	var u minorUnits
	u.v.SetFromBig(value)
	return u, nil
}

func unitsFromUint64(value uint64) minorUnits {
	var u minorUnits
	u.v.SetUint64(value)
	return u
}

// unitsFromEther truncates toward zero. Negative and NaN inputs give zero,
// values above the 128-bit range saturate.
func unitsFromEther(ether float64) minorUnits {
	if math.IsNaN(ether) || ether <= 0 {
		return minorUnits{}
	}
	if math.IsInf(ether, 1) {
		return minorUnits{v: *maxMinorUnits}
	}
	wei, _ := new(big.Float).SetPrec(256).Mul(new(big.Float).SetPrec(256).SetFloat64(ether), weiPerEther).Int(nil)
	if wei.BitLen() > maxMinorUnitBits {
		return minorUnits{v: *maxMinorUnits}
	}
	var u minorUnits
	u.v.SetFromBig(wei)
	return u
}

// Wei returns the minor-unit count as a new big.Int.
func (u minorUnits) Wei() *big.Int {
	return u.v.ToBig()
}

// Uint64 returns the value and whether it fits.
func (u minorUnits) Uint64() (uint64, bool) {
	return u.v.Uint64(), u.v.IsUint64()
}

// Ether converts with the fixed 1e18 ratio. Lossy.
func (u minorUnits) Ether() float64 {
	f, _ := new(big.Float).SetPrec(256).Quo(new(big.Float).SetPrec(256).SetInt(u.v.ToBig()), weiPerEther).Float64()
	return f
}

func (u minorUnits) IsZero() bool {
	return u.v.IsZero()
}

func (u minorUnits) cmp(other minorUnits) int {
	return u.v.Cmp(&other.v)
}

func (u minorUnits) decimal(exp uint8) decimal.Decimal {
	return decimal.NewFromBigInt(u.v.ToBig(), -int32(exp))
}

// FormatEther renders the value in the 1e18 major unit with a fixed number of decimals.
func (u minorUnits) FormatEther(places int32) string {
	return u.decimal(etherDecimals).StringFixed(places)
}

// FormatUnits renders the exact major-unit value using the chain's own exponent.
func (u minorUnits) FormatUnits(chainType ChainType) string {
	return u.decimal(chainType.Decimals()).String()
}

func (u minorUnits) String() string {
	return fmt.Sprintf("%s (%s Wei)", u.decimal(etherDecimals).String(), u.v.Dec())
}

func (u minorUnits) MarshalText() ([]byte, error) {
	return []byte(u.v.Dec()), nil
}

func (u *minorUnits) unmarshalText(text []byte) error {
	value, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return fmt.Errorf("not a decimal integer: %q", string(text))
	}
	parsed, err := unitsFromBig(value)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Amount is a non-negative transfer amount in minor units.
type Amount struct {
	minorUnits
}

// ZeroAmount returns an amount of zero.
func ZeroAmount() Amount {
	return Amount{}
}

// AmountFromWei rejects negative values and values wider than 128 bits.
func AmountFromWei(wei *big.Int) (Amount, error) {
	u, err := unitsFromBig(wei)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}
	return Amount{u}, nil
}

func AmountFromUint64(wei uint64) Amount {
	return Amount{unitsFromUint64(wei)}
}

// AmountFromEther converts a float major-unit value with the fixed 1e18 ratio.
func AmountFromEther(ether float64) Amount {
	return Amount{unitsFromEther(ether)}
}

// ParseAmount parses a decimal major-unit string ("0.25") exactly, using the
// chain's exponent.
func ParseAmount(value string, chainType ChainType) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q: %v", domain.ErrInvalidAmount, value, err)
	}
	if d.IsNegative() {
		return Amount{}, fmt.Errorf("%w: %q is negative", domain.ErrInvalidAmount, value)
	}
	scaled := d.Shift(int32(chainType.Decimals()))
	if !scaled.Equal(scaled.Truncate(0)) {
		return Amount{}, fmt.Errorf("%w: %q has more than %d decimals", domain.ErrInvalidAmount, value, chainType.Decimals())
	}
	return AmountFromWei(scaled.BigInt())
}

func (a Amount) Cmp(other Amount) int {
	return a.cmp(other.minorUnits)
}

func (a *Amount) UnmarshalText(text []byte) error {
	if err := a.unmarshalText(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}
	return nil
}

// Balance is an on-chain balance in minor units.
type Balance struct {
	minorUnits
}

func ZeroBalance() Balance {
	return Balance{}
}

// BalanceFromWei rejects negative values and values wider than 128 bits.
func BalanceFromWei(wei *big.Int) (Balance, error) {
	u, err := unitsFromBig(wei)
	if err != nil {
		return Balance{}, fmt.Errorf("%w: %v", domain.ErrInvalidBalance, err)
	}
	return Balance{u}, nil
}

func BalanceFromUint64(wei uint64) Balance {
	return Balance{unitsFromUint64(wei)}
}

// BalanceFromEther converts a float major-unit value with the fixed 1e18 ratio.
func BalanceFromEther(ether float64) Balance {
	return Balance{unitsFromEther(ether)}
}

func (b Balance) Cmp(other Balance) int {
	return b.cmp(other.minorUnits)
}

// Covers reports whether the balance is at least amount.
func (b Balance) Covers(amount Amount) bool {
	return b.cmp(amount.minorUnits) >= 0
}

func (b *Balance) UnmarshalText(text []byte) error {
	if err := b.unmarshalText(text); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBalance, err)
	}
	return nil
}
