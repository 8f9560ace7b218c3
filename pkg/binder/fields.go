package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// bindFields fills the fields of v tagged with tag from lookup. Untagged
// fields, fields tagged "-" and names lookup has no value for are left
// untouched. Every failure wraps bindErr.
func bindFields(v any, tag string, lookup func(name string) []string, bindErr error) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: target must be a non-nil pointer to struct", bindErr)
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		name, ok := fieldName(sf, tag)
		if !ok || !sf.IsExported() {
			continue
		}
		values := lookup(name)
		if len(values) == 0 {
			continue
		}
		if err := setField(rv.Field(i), values); err != nil {
			return fmt.Errorf("%w: field %s: %v", bindErr, sf.Name, err)
		}
	}
	return nil
}

// fieldName returns the parameter name in sf's tag. A tag without a name
// part binds the lowercased field name.
func fieldName(sf reflect.StructField, tag string) (string, bool) {
	value, tagged := sf.Tag.Lookup(tag)
	if !tagged || value == "-" || sf.Anonymous {
		return "", false
	}
	name, _, _ := strings.Cut(value, ",")
	if name == "" {
		name = strings.ToLower(sf.Name)
	}
	return name, true
}

func setField(field reflect.Value, values []string) error {
	switch field.Kind() {
	case reflect.Pointer:
		ptr := reflect.New(field.Type().Elem())
		if err := setField(ptr.Elem(), values); err != nil {
			return err
		}
		field.Set(ptr)
		return nil

	case reflect.Slice:
		// repeated parameters and comma separated lists both work:
		// ?tags=a&tags=b and ?tags=a,b
		var items []string
		for _, v := range values {
			for item := range strings.SplitSeq(v, ",") {
				if item = strings.TrimSpace(item); item != "" {
					items = append(items, item)
				}
			}
		}
		slice := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := setScalar(slice.Index(i), item); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}
	return setScalar(field, values[0])
}

func setScalar(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := parseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("unsupported type %s", field.Type())
	}
	return nil
}

// parseBool accepts strconv.ParseBool forms plus the checkbox style
// on/off and yes/no. A bare flag (?overwrite) counts as true.
func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", value)
	}
	return b, nil
}
