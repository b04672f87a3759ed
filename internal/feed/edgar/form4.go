package edgar

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
)

// Form 4 ownership document schema, reduced to the fields this system
// reads. Numeric fields stay strings here and are parsed defensively.
type ownershipDocument struct {
	XMLName xml.Name `xml:"ownershipDocument"`
	Issuer  struct {
		Name   string `xml:"issuerName"`
		Symbol string `xml:"issuerTradingSymbol"`
	} `xml:"issuer"`
	Owner struct {
		ID struct {
			Name string `xml:"rptOwnerName"`
		} `xml:"reportingOwnerId"`
		Relationship struct {
			OfficerTitle      string `xml:"officerTitle"`
			IsOfficer         string `xml:"isOfficer"`
			IsTenPercentOwner string `xml:"isTenPercentOwner"`
		} `xml:"reportingOwnerRelationship"`
	} `xml:"reportingOwner"`
	NonDerivativeTable *struct {
		Transactions []nonDerivativeTransaction `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
}

type nonDerivativeTransaction struct {
	Coding struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Date struct {
		Value string `xml:"value"`
	} `xml:"transactionDate"`
	Amounts struct {
		Shares struct {
			Value string `xml:"value"`
		} `xml:"transactionShares"`
		PricePerShare struct {
			Value string `xml:"value"`
		} `xml:"transactionPricePerShare"`
	} `xml:"transactionAmounts"`
}

// ParseForm4 parses a Form 4 XML document into a FilingDocument. It
// returns core.ErrDocumentAbsent when the document lacks the structural
// sections a filing needs (issuer, owner, transaction table). Unparsable
// numeric fields default to zero rather than failing the record.
func ParseForm4(data []byte, sourceURL string) (*core.FilingDocument, error) {
	var raw ownershipDocument
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, core.WrapError(core.ErrFeedMalformed, err)
	}

	if raw.NonDerivativeTable == nil {
		return nil, core.ErrDocumentAbsent
	}
	if raw.Issuer.Name == "" && raw.Issuer.Symbol == "" {
		return nil, core.ErrDocumentAbsent
	}

	doc := &core.FilingDocument{
		IssuerName:        fallback(raw.Issuer.Name, "Unknown"),
		Ticker:            strings.TrimSpace(raw.Issuer.Symbol),
		OwnerName:         fallback(raw.Owner.ID.Name, "Unknown"),
		OwnerTitle:        strings.TrimSpace(raw.Owner.Relationship.OfficerTitle),
		IsOfficer:         raw.Owner.Relationship.IsOfficer == "1" || strings.EqualFold(raw.Owner.Relationship.IsOfficer, "true"),
		IsTenPercentOwner: raw.Owner.Relationship.IsTenPercentOwner == "1" || strings.EqualFold(raw.Owner.Relationship.IsTenPercentOwner, "true"),
		SourceURL:         sourceURL,
	}

	for _, tx := range raw.NonDerivativeTable.Transactions {
		doc.Entries = append(doc.Entries, core.TransactionEntry{
			Code:   core.TransactionCode(strings.TrimSpace(tx.Coding.Code)),
			Date:   strings.TrimSpace(tx.Date.Value),
			Shares: parseFloat(tx.Amounts.Shares.Value),
			Price:  parseFloat(tx.Amounts.PricePerShare.Value),
		})
	}

	return doc, nil
}

// parseFloat parses a numeric field, defaulting to 0 on anything
// unparsable. A missing price or share count must not fail the record.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func fallback(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
