package id

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText renders the dashed String form; JSON uses it too.
func (i ID) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText accepts any form Parse accepts.
func (i *ID) UnmarshalText(b []byte) error {
	out, err := Parse(string(b))
	if err != nil {
		return err
	}
	*i = out
	return nil
}

// MarshalBinary returns the raw 16 bytes.
func (i ID) MarshalBinary() ([]byte, error) { return i.Bytes(), nil }

// UnmarshalBinary requires exactly 16 bytes.
func (i *ID) UnmarshalBinary(b []byte) error {
	out, err := FromBytes(b)
	if err != nil {
		return err
	}
	*i = out
	return nil
}

// Value stores the ID as a 16-byte BLOB so SQL ordering matches byte order.
func (i ID) Value() (driver.Value, error) { return i.Bytes(), nil }

// Scan reads a 16-byte BLOB or any textual form. NULL scans to Nil.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case []byte:
		if len(v) == Size {
			copy(i[:], v)
			return nil
		}
		return i.UnmarshalText(v)
	case string:
		return i.UnmarshalText([]byte(v))
	default:
		return fmt.Errorf("%w: cannot scan %T into id.ID", ErrInvalidArgument, src)
	}
}
