package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Cents 以最小貨幣單位儲存金額，JSON 中以十進位數字表示（12.5 = 1250）
type Cents int64

// MaxCents 是單筆金額與帳戶餘額的上限（一百億元）
// 遠小於 2^53，float64 往返不會失真，加總也不會溢位
const MaxCents Cents = 1_000_000_000_000

func (c Cents) Float() float64 {
	return float64(c) / 100
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(c.Float(), 'f', -1, 64)), nil
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("amount must be a number: %w", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) > MaxCents.Float() {
		return fmt.Errorf("amount out of range: at most %s", strconv.FormatFloat(MaxCents.Float(), 'f', -1, 64))
	}
	*c = Cents(math.Round(value * 100))
	return nil
}
