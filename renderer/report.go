package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	md "github.com/nao1215/markdown"
	"github.com/xzxcupidxzx/finance"
)

// HistoryMarkdown renders the reconciliation history, most recent first.
func HistoryMarkdown(entries []finance.ReconciliationEntry, loc *time.Location) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Reconciliation history")
	if len(entries) == 0 {
		doc.PlainText("No reconciliation recorded.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"When", "Account", "System", "Actual", "Difference"},
		Rows:   [][]string{},
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		diff := finance.VND(e.Difference).SignedString()
		if e.Balanced() {
			diff = "balanced"
		}
		table.Rows = append(table.Rows, []string{
			e.Timestamp.In(loc).Format("2006-01-02 15:04"),
			cell(e.Account),
			finance.VND(e.SystemBalance).String(),
			finance.VND(e.ActualBalance).String(),
			diff,
		})
	}
	doc.Table(table)
	return doc.String()
}

// CategoriesMarkdown renders category totals, one table per type.
func CategoriesMarkdown(title string, totals []finance.CategoryTotal) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	if len(totals) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	var table *md.TableSet
	flush := func() {
		if table != nil {
			doc.Table(*table)
		}
	}
	var current finance.Type
	for _, c := range totals {
		if c.Type != current {
			flush()
			current = c.Type
			doc.H2(string(c.Type))
			table = &md.TableSet{
				Alignment: []md.TableAlignment{
					md.AlignLeft,
					md.AlignRight,
					md.AlignRight,
				},
				Header: []string{"Category", "Transactions", "Amount"},
				Rows:   [][]string{},
			}
		}
		table.Rows = append(table.Rows, []string{
			cell(c.Category),
			strconv.Itoa(c.Count),
			finance.VND(c.Amount).String(),
		})
	}
	flush()
	return doc.String()
}

// EntriesMarkdown renders accounts or categories.
func EntriesMarkdown(title string, entries []finance.Entry) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Value", "Label", "Kind"},
		Rows:      [][]string{},
	}
	for _, e := range entries {
		kind := "user"
		if e.System {
			kind = "system"
		}
		table.Rows = append(table.Rows, []string{cell(e.Value), cell(e.Text), kind})
	}
	doc.Table(table)
	return doc.String()
}

// ReconciliationMarkdown renders the outcome of a recorded reconciliation.
func ReconciliationMarkdown(rec finance.Reconciliation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	e := rec.Entry
	doc.PlainText(fmt.Sprintf("Reconciled %s: system %s, actual %s.", md.Bold(e.Account), finance.VND(e.SystemBalance), finance.VND(e.ActualBalance)))
	if rec.Adjustment == nil {
		doc.PlainText("The account is balanced, no adjustment needed.")
		return doc.String()
	}
	doc.PlainText("Recorded adjustment: " + Transaction(*rec.Adjustment))
	return doc.String()
}

// ProposalsMarkdown renders the outcome of applied assistant proposals.
func ProposalsMarkdown(results []finance.ProposalResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	if len(results) == 0 {
		doc.PlainText("Nothing to record.")
		return doc.String()
	}
	items := make([]string, 0, len(results))
	for _, res := range results {
		items = append(items, proposalLine(res))
	}
	doc.BulletList(items...)
	return doc.String()
}

func proposalLine(res finance.ProposalResult) string {
	var b strings.Builder
	switch {
	case res.Err == nil:
		b.WriteString("added ")
	case finance.IsWarning(res.Err):
		fmt.Fprintf(&b, "added, %s (%v): ", md.Bold("not saved"), res.Err)
	default:
		p := res.Proposal
		return fmt.Sprintf("%s %s %s in %s: %v", md.Bold("rejected"), p.Type, finance.VND(p.Amount), p.Category, res.Err)
	}
	if res.Proposal.IsTransfer() && len(res.Transactions) == 2 {
		out, in := res.Transactions[0], res.Transactions[1]
		fmt.Fprintf(&b, "transfer of %s from %s to %s", out.Money(), out.Account, in.Account)
	} else if len(res.Transactions) > 0 {
		b.WriteString(Transaction(res.Transactions[0]))
	}
	if len(res.Created) > 0 {
		fmt.Fprintf(&b, " (created %s)", strings.Join(res.Created, ", "))
	}
	return b.String()
}
