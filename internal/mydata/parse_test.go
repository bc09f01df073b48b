package mydata

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<?xml version="1.0" encoding="UTF-8"?>
<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0">
  <continuationToken>
    <nextPartitionKey>pk-1</nextPartitionKey>
    <nextRowKey>rk-1</nextRowKey>
  </continuationToken>
  <invoicesDoc>
    <invoice>
      <issuer>
        <vatNumber>094254743</vatNumber>
        <name>ZACO</name>
      </issuer>
      <invoiceHeader>
        <issueDate>2025-12-01</issueDate>
      </invoiceHeader>
      <invoiceDetails>
        <itemDescr>Milk</itemDescr>
        <quantity>10</quantity>
      </invoiceDetails>
      <invoiceDetails>
        <itemDescr>Yogurt</itemDescr>
        <quantity>2.5</quantity>
      </invoiceDetails>
    </invoice>
  </invoicesDoc>
</RequestedDoc>`

func TestParsePage(t *testing.T) {
	t.Run("extracts records and continuation token", func(t *testing.T) {
		page, err := ParsePage([]byte(samplePage))
		require.NoError(t, err)

		require.Len(t, page.Records, 2)
		assert.Equal(t, 0, page.Skipped)

		first := page.Records[0]
		assert.Equal(t, "ZACO", first.IssuerName)
		assert.Equal(t, "094254743", first.IssuerVAT)
		assert.Equal(t, "Milk", first.ItemDescr)
		assert.Equal(t, "2025-12-01", first.IssueDate.Format("2006-01-02"))
		assert.True(t, first.Quantity.Equal(decimal.NewFromInt(10)))

		assert.True(t, page.Records[1].Quantity.Equal(decimal.RequireFromString("2.5")))

		require.True(t, page.HasMore())
		assert.Equal(t, "pk-1", page.Token.NextPartitionKey)
		assert.Equal(t, "rk-1", page.Token.NextRowKey)
	})

	t.Run("no continuation token means last page", func(t *testing.T) {
		page, err := ParsePage([]byte(
			`<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0"><invoicesDoc/></RequestedDoc>`))
		require.NoError(t, err)
		assert.False(t, page.HasMore())
		assert.Empty(t, page.Records)
	})

	t.Run("token with one empty key terminates pagination", func(t *testing.T) {
		page, err := ParsePage([]byte(
			`<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0">
			   <continuationToken><nextPartitionKey>pk</nextPartitionKey><nextRowKey></nextRowKey></continuationToken>
			 </RequestedDoc>`))
		require.NoError(t, err)
		assert.False(t, page.HasMore())
	})

	t.Run("malformed line item skips only that item", func(t *testing.T) {
		page, err := ParsePage([]byte(
			`<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0">
			   <invoicesDoc>
			     <invoice>
			       <issuer><vatNumber>094254743</vatNumber><name>ZACO</name></issuer>
			       <invoiceHeader><issueDate>2025-12-01</issueDate></invoiceHeader>
			       <invoiceDetails><itemDescr>Milk</itemDescr><quantity>not-a-number</quantity></invoiceDetails>
			       <invoiceDetails><itemDescr></itemDescr><quantity>3</quantity></invoiceDetails>
			       <invoiceDetails><itemDescr>Bread</itemDescr><quantity>4</quantity></invoiceDetails>
			     </invoice>
			   </invoicesDoc>
			 </RequestedDoc>`))
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, "Bread", page.Records[0].ItemDescr)
		assert.Equal(t, 2, page.Skipped)
	})

	t.Run("invoice without issuer name skips its items", func(t *testing.T) {
		page, err := ParsePage([]byte(
			`<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0">
			   <invoicesDoc>
			     <invoice>
			       <issuer><vatNumber>094254743</vatNumber></issuer>
			       <invoiceHeader><issueDate>2025-12-01</issueDate></invoiceHeader>
			       <invoiceDetails><itemDescr>Milk</itemDescr><quantity>1</quantity></invoiceDetails>
			     </invoice>
			     <invoice>
			       <issuer><vatNumber>099999999</vatNumber><name>OTHER</name></issuer>
			       <invoiceHeader><issueDate>2025-12-02</issueDate></invoiceHeader>
			       <invoiceDetails><itemDescr>Flour</itemDescr><quantity>7</quantity></invoiceDetails>
			     </invoice>
			   </invoicesDoc>
			 </RequestedDoc>`))
		require.NoError(t, err)
		require.Len(t, page.Records, 1)
		assert.Equal(t, "OTHER", page.Records[0].IssuerName)
		assert.Equal(t, 1, page.Skipped)
	})

	t.Run("invalid issue date skips the invoice", func(t *testing.T) {
		page, err := ParsePage([]byte(
			`<RequestedDoc xmlns="http://www.aade.gr/myDATA/invoice/v1.0">
			   <invoicesDoc>
			     <invoice>
			       <issuer><name>ZACO</name></issuer>
			       <invoiceHeader><issueDate>01/12/2025</issueDate></invoiceHeader>
			       <invoiceDetails><itemDescr>Milk</itemDescr><quantity>1</quantity></invoiceDetails>
			     </invoice>
			   </invoicesDoc>
			 </RequestedDoc>`))
		require.NoError(t, err)
		assert.Empty(t, page.Records)
		assert.Equal(t, 1, page.Skipped)
	})

	t.Run("malformed document fails the page", func(t *testing.T) {
		_, err := ParsePage([]byte(`<RequestedDoc><unclosed`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMalformedResponse)
	})
}
