package data360

import (
	"errors"

	"github.com/huangsam/macrodash/schema"
	"github.com/tidwall/gjson"
)

// ErrUnparseableEnvelope is returned when a response body is not JSON at all.
var ErrUnparseableEnvelope = errors.New("response body is not valid JSON")

// EnvelopeShape names the response layouts the extractor recognizes.
type EnvelopeShape string

// Known envelope shapes, in probe order.
const (
	ShapeDataValue EnvelopeShape = "data_value" // {"data": {"value": [...]}}
	ShapeDataList  EnvelopeShape = "data_list"  // {"data": [...]}
	ShapeValueList EnvelopeShape = "value_list" // {"value": [...]}
	ShapeBareList  EnvelopeShape = "bare_list"  // [...]
	ShapeUnknown   EnvelopeShape = "unknown"
)

// envelopeProbe locates the record list for one shape, or reports false.
type envelopeProbe struct {
	shape EnvelopeShape
	find  func(root gjson.Result) (gjson.Result, bool)
}

var probes = []envelopeProbe{
	{ShapeDataValue, func(root gjson.Result) (gjson.Result, bool) {
		data := root.Get("data")
		if !data.IsObject() {
			return gjson.Result{}, false
		}
		v := data.Get("value")
		return v, v.IsArray()
	}},
	{ShapeDataList, func(root gjson.Result) (gjson.Result, bool) {
		v := root.Get("data")
		return v, v.IsArray()
	}},
	{ShapeValueList, func(root gjson.Result) (gjson.Result, bool) {
		if !root.IsObject() {
			return gjson.Result{}, false
		}
		v := root.Get("value")
		return v, v.IsArray()
	}},
	{ShapeBareList, func(root gjson.Result) (gjson.Result, bool) {
		return root, root.IsArray()
	}},
}

// ExtractRecords pulls the record list out of a response body.
//
// Shapes are probed in priority order. Valid JSON matching none of them yields
// ShapeUnknown and no records; a body that is not JSON returns ErrUnparseableEnvelope.
// List elements that are not objects are skipped.
func ExtractRecords(body []byte) ([]schema.RawRecord, EnvelopeShape, error) {
	if !gjson.ValidBytes(body) {
		return nil, ShapeUnknown, ErrUnparseableEnvelope
	}
	root := gjson.ParseBytes(body)

	for _, p := range probes {
		list, ok := p.find(root)
		if !ok {
			continue
		}
		return decodeList(list), p.shape, nil
	}
	return []schema.RawRecord{}, ShapeUnknown, nil
}

// decodeList converts the object elements of a JSON array into raw records.
func decodeList(list gjson.Result) []schema.RawRecord {
	elems := list.Array()
	records := make([]schema.RawRecord, 0, len(elems))
	for _, el := range elems {
		if !el.IsObject() {
			continue
		}
		m, ok := el.Value().(map[string]any)
		if !ok {
			continue
		}
		records = append(records, schema.RawRecord(m))
	}
	return records
}

// pageLength returns the raw element count of a value_list page, including
// elements that are skipped during decoding.
func pageLength(body []byte) int {
	return len(gjson.GetBytes(body, "value").Array())
}

// totalCount returns the "count" field of a raw Data360 page, or -1 when absent.
func totalCount(body []byte) int {
	c := gjson.GetBytes(body, "count")
	if c.Type != gjson.Number {
		return -1
	}
	return int(c.Int())
}
