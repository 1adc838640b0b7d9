package mapping

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlprocessor/internal/models"
	"xmlprocessor/internal/xmldoc"
)

const orderXML = `<?xml version="1.0"?>
<Order id="ORD-7">
	<Header>
		<Number> po-1001 </Number>
		<Date>2024-03-05T10:30:00Z</Date>
	</Header>
	<Lines>
		<Count>3</Count>
	</Lines>
	<Total>149.90</Total>
	<Express>true</Express>
</Order>`

func mustParse(t *testing.T, xml string) *xmldoc.Document {
	t.Helper()
	doc, err := xmldoc.Parse([]byte(xml))
	require.NoError(t, err)
	return doc
}

func rule(name, path, target, dataType string, mutate ...func(*models.MappingRule)) models.MappingRule {
	r := models.MappingRule{
		ID:          uuid.New(),
		ClientID:    uuid.New(),
		InterfaceID: uuid.New(),
		Name:        name,
		XMLPath:     path,
		TargetField: target,
		DataType:    dataType,
		IsActive:    true,
	}
	for _, m := range mutate {
		m(&r)
	}
	return r
}

func TestApply_TypedExtraction(t *testing.T) {
	doc := mustParse(t, orderXML)
	rules := []models.MappingRule{
		rule("order-number", "/Order/Header/Number", "orderNumber", "STRING", func(r *models.MappingRule) {
			r.Transformation = "trim"
		}),
		rule("line-count", "/Order/Lines/Count", "lineCount", "INTEGER"),
		rule("total", "/Order/Total", "total", "FLOAT"),
		rule("express", "/Order/Express", "express", "BOOLEAN"),
		rule("order-date", "/Order/Header/Date", "orderDate", "DATETIME"),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, "po-1001", record["orderNumber"])
	assert.Equal(t, int64(3), record["lineCount"])
	assert.Equal(t, 149.90, record["total"])
	assert.Equal(t, true, record["express"])
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), record["orderDate"])
}

func TestApply_AttributeRule(t *testing.T) {
	doc := mustParse(t, orderXML)
	rules := []models.MappingRule{
		rule("order-id", "/Order/id", "orderId", "STRING", func(r *models.MappingRule) {
			r.IsAttribute = true
		}),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, "ORD-7", record["orderId"])
}

func TestApply_MissingRequiredField(t *testing.T) {
	doc := mustParse(t, `<Order><Total>10</Total></Order>`)
	rules := []models.MappingRule{
		rule("order-id", "/Order/Id", "orderId", "STRING", func(r *models.MappingRule) {
			r.Required = true
		}),
	}

	_, err := Apply(doc, rules)
	require.Error(t, err)

	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Len(t, extErr.FieldErrors, 1)
	assert.Equal(t, "order-id", extErr.FieldErrors[0].RuleName)
	assert.Equal(t, "missing required field", extErr.FieldErrors[0].Reason)
	assert.Contains(t, err.Error(), "order-id")
}

func TestApply_RequiredNeverSubstitutesDefault(t *testing.T) {
	doc := mustParse(t, `<Order/>`)
	fallback := "X"
	rules := []models.MappingRule{
		rule("order-id", "/Order/Id", "orderId", "STRING", func(r *models.MappingRule) {
			r.Required = true
			r.DefaultValue = &fallback
		}),
	}

	_, err := Apply(doc, rules)
	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "missing required field", extErr.FieldErrors[0].Reason)
}

func TestApply_DefaultValueSubstitution(t *testing.T) {
	doc := mustParse(t, `<Order/>`)
	fallback := "unknown"
	rules := []models.MappingRule{
		rule("carrier", "/Order/Carrier", "carrier", "STRING", func(r *models.MappingRule) {
			r.DefaultValue = &fallback
		}),
		rule("notes", "/Order/Notes", "notes", "STRING"),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, "unknown", record["carrier"])
	_, present := record["notes"]
	assert.False(t, present, "optional field without default must be omitted")
}

func TestApply_AccumulatesAllFieldErrors(t *testing.T) {
	doc := mustParse(t, `<Order><Qty>abc</Qty><Code>zz</Code></Order>`)
	rules := []models.MappingRule{
		rule("qty", "/Order/Qty", "qty", "INTEGER"),
		rule("code", "/Order/Code", "code", "STRING", func(r *models.MappingRule) {
			r.ValidationRule = "minLength:3"
		}),
		rule("missing", "/Order/Ref", "ref", "STRING", func(r *models.MappingRule) {
			r.Required = true
		}),
	}

	_, err := Apply(doc, rules)
	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Len(t, extErr.FieldErrors, 3, "all rules must be evaluated, no short-circuit")
}

func TestApply_ValidationExpression(t *testing.T) {
	doc := mustParse(t, `<Order><Code>AB12</Code></Order>`)
	rules := []models.MappingRule{
		rule("code", "/Order/Code", "code", "STRING", func(r *models.MappingRule) {
			r.ValidationRule = `regex:^[A-Z]{2}\d{2}$;minLength:4`
		}),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, "AB12", record["code"])
}

func TestApply_TableNameGroupsFields(t *testing.T) {
	doc := mustParse(t, orderXML)
	rules := []models.MappingRule{
		rule("number", "/Order/Header/Number", "number", "STRING", func(r *models.MappingRule) {
			r.TableName = "order_headers"
			r.Transformation = "trim"
		}),
		rule("total", "/Order/Total", "total", "FLOAT", func(r *models.MappingRule) {
			r.TableName = "order_headers"
		}),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	header, ok := record["order_headers"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 149.90, header["total"])
}

func TestApply_Deterministic(t *testing.T) {
	doc := mustParse(t, orderXML)
	rules := []models.MappingRule{
		rule("number", "/Order/Header/Number", "number", "STRING", func(r *models.MappingRule) {
			r.Transformation = "trim"
		}),
		rule("total", "/Order/Total", "total", "FLOAT"),
	}

	first, err := Apply(doc, rules)
	require.NoError(t, err)
	second, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestApply_UnknownTransformationKeepsValue(t *testing.T) {
	doc := mustParse(t, `<Order><Code>AbC</Code></Order>`)
	rules := []models.MappingRule{
		rule("code", "/Order/Code", "code", "STRING", func(r *models.MappingRule) {
			r.Transformation = "rot13"
		}),
	}

	record, err := Apply(doc, rules)
	require.NoError(t, err)
	assert.Equal(t, "AbC", record["code"])
}

func TestApply_UnknownDataTypeFails(t *testing.T) {
	doc := mustParse(t, `<Order><Blob>x</Blob></Order>`)
	rules := []models.MappingRule{
		rule("blob", "/Order/Blob", "blob", "BLOB"),
	}

	_, err := Apply(doc, rules)
	var extErr *models.ExtractionError
	require.ErrorAs(t, err, &extErr)
	require.Len(t, extErr.FieldErrors, 1)
	assert.Contains(t, extErr.FieldErrors[0].Reason, "unknown data type")
}

func TestTransformations(t *testing.T) {
	assert.Equal(t, "abc", applyTransformation("ABC", "lowercase"))
	assert.Equal(t, "ABC", applyTransformation("abc", "uppercase"))
	assert.Equal(t, "x", applyTransformation("  x ", "trim"))
	assert.Equal(t, "PO-1", applyTransformation("1", "prefix:PO-"))
	assert.Equal(t, "1-EU", applyTransformation("1", "suffix:-EU"))
	assert.Equal(t, "a_b", applyTransformation("a b", "replace: =_"))
}
