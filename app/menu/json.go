package menu

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DayMenu serializes its meals as a JSON object keyed by meal name, with each
// meal an object keyed by category name. Standard library maps would lose
// page order, so encoding and decoding are done by hand: keys are written in
// slice order and read back with a token walk. Snapshot files produced here
// replay through the loader without re-scraping.

func (d DayMenu) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"date":`)
	if err := writeJSON(&buf, d.Date); err != nil {
		return nil, err
	}
	buf.WriteString(`,"location":`)
	if err := writeJSON(&buf, d.Location); err != nil {
		return nil, err
	}
	buf.WriteString(`,"meals":{`)
	for i, meal := range d.Meals {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, meal.Name); err != nil {
			return nil, err
		}
		buf.WriteString(`:{`)
		for j, category := range meal.Categories {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(&buf, category.Name); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			items := category.Items
			if items == nil {
				items = []Item{}
			}
			if err := writeJSON(&buf, items); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	if d.Degraded {
		buf.WriteString(`,"degraded":true`)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *DayMenu) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("day menu: %w", err)
	}

	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return fmt.Errorf("day menu: %w", err)
		}

		switch key {
		case "date":
			if err := dec.Decode(&d.Date); err != nil {
				return fmt.Errorf("day menu date: %w", err)
			}
		case "location":
			if err := dec.Decode(&d.Location); err != nil {
				return fmt.Errorf("day menu location: %w", err)
			}
		case "degraded":
			if err := dec.Decode(&d.Degraded); err != nil {
				return fmt.Errorf("day menu degraded flag: %w", err)
			}
		case "meals":
			if err := d.decodeMeals(dec); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return fmt.Errorf("day menu field %q: %w", key, err)
			}
		}
	}

	return expectDelim(dec, '}')
}

func (d *DayMenu) decodeMeals(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("meals: %w", err)
	}

	for dec.More() {
		mealName, err := readKey(dec)
		if err != nil {
			return fmt.Errorf("meals: %w", err)
		}
		meal := Meal{Name: mealName}

		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("meal %q: %w", mealName, err)
		}
		for dec.More() {
			categoryName, err := readKey(dec)
			if err != nil {
				return fmt.Errorf("meal %q: %w", mealName, err)
			}
			var items []Item
			if err := dec.Decode(&items); err != nil {
				return fmt.Errorf("category %q: %w", categoryName, err)
			}
			meal.Categories = append(meal.Categories, Category{Name: categoryName, Items: items})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return fmt.Errorf("meal %q: %w", mealName, err)
		}

		d.Meals = append(d.Meals, meal)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("meals: %w", err)
	}
	return nil
}

func writeJSON(buf *bytes.Buffer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

func expectDelim(dec *json.Decoder, d json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != d {
		return fmt.Errorf("expected %q, got %v", d, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
