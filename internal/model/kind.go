package model

import "strings"

// Kind is the coarse type tag of a field.
type Kind string

const (
	KindText       Kind = "text"
	KindInteger    Kind = "integer"
	KindFloat      Kind = "float"
	KindBoolean    Kind = "boolean"
	KindDateTime   Kind = "datetime"
	KindBinary     Kind = "binary"
	KindJSON       Kind = "json"
	KindUUID       Kind = "uuid"
	KindForeignKey Kind = "foreign_key"
	KindOther      Kind = "other"
)

// kindNames maps base type names, lower-cased with size suffixes removed.
var kindNames = map[string]Kind{
	// text
	"text": KindText, "varchar": KindText, "char": KindText, "character": KindText,
	"character varying": KindText, "nvarchar": KindText, "nchar": KindText,
	"string": KindText, "clob": KindText, "tinytext": KindText,
	"mediumtext": KindText, "longtext": KindText, "citext": KindText,
	"enum": KindText, "set": KindText, "name": KindText, "bpchar": KindText,

	// integer
	"int": KindInteger, "integer": KindInteger, "smallint": KindInteger,
	"bigint": KindInteger, "tinyint": KindInteger, "mediumint": KindInteger,
	"int2": KindInteger, "int4": KindInteger, "int8": KindInteger,
	"serial": KindInteger, "bigserial": KindInteger, "smallserial": KindInteger,
	"hugeint": KindInteger, "ubigint": KindInteger, "uinteger": KindInteger,
	"usmallint": KindInteger, "utinyint": KindInteger,

	// float
	"real": KindFloat, "float": KindFloat, "double": KindFloat,
	"double precision": KindFloat, "float4": KindFloat, "float8": KindFloat,
	"numeric": KindFloat, "decimal": KindFloat, "money": KindFloat,

	// boolean
	"bool": KindBoolean, "boolean": KindBoolean, "bit": KindBoolean,

	// datetime
	"date": KindDateTime, "time": KindDateTime, "datetime": KindDateTime,
	"timestamp": KindDateTime, "timestamptz": KindDateTime, "timetz": KindDateTime,
	"timestamp with time zone": KindDateTime, "timestamp without time zone": KindDateTime,
	"time with time zone": KindDateTime, "time without time zone": KindDateTime,
	"interval": KindDateTime, "year": KindDateTime,

	// binary
	"blob": KindBinary, "bytea": KindBinary, "binary": KindBinary,
	"varbinary": KindBinary, "tinyblob": KindBinary, "mediumblob": KindBinary,
	"longblob": KindBinary,

	// json
	"json": KindJSON, "jsonb": KindJSON,

	// uuid
	"uuid": KindUUID,

	"foreign_key": KindForeignKey, "foreignkey": KindForeignKey,
}

// KindOf maps a SQL (or model file) type name to its Kind. Matching ignores
// case, size suffixes such as "(255)", array brackets and "unsigned".
// Unknown types are KindOther.
func KindOf(sqlType string) Kind {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		rest := ""
		if j := strings.IndexByte(t[i:], ')'); j >= 0 {
			rest = t[i+j+1:]
		}
		t = strings.TrimSpace(t[:i] + rest)
	}
	t = strings.TrimSuffix(t, "[]")
	t = strings.TrimSpace(strings.TrimSuffix(t, " unsigned"))
	t = strings.Join(strings.Fields(t), " ")

	if k, ok := kindNames[t]; ok {
		return k
	}
	// "integer primary key autoincrement" style declarations from sqlite.
	if first, _, found := strings.Cut(t, " "); found {
		if k, ok := kindNames[first]; ok {
			return k
		}
	}
	return KindOther
}
