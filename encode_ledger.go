package finance

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction %q: %w", tx.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger writes txs in chronological order to w in JSONL format, one
// transaction per line. Transactions with the same datetime are ordered by
// creation time and otherwise keep their relative order. txs is not modified.
func EncodeLedger(w io.Writer, txs []Transaction, loc *time.Location) error {
	sorted := slices.Clone(txs)
	cmp := newestFirst(loc)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return cmp(b, a) })
	for _, tx := range sorted {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger decodes transactions from a stream of JSONL data. Empty lines
// are skipped; a line that is not a transaction is an error.
func DecodeLedger(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		b := scanner.Bytes()
		if len(b) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(b, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction on line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return txs, nil
}
