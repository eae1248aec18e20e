// Package diagnostic provides structured errors, warnings and notes
// produced while checking trait mapping files.
//
// Each diagnostic carries a stable code (e.g. "unknown_axis",
// "unbound_result_var"), the entry it belongs to ("traits[2]") and the
// subject inside that entry (a field name or descriptor), so the CLI can
// render them as text, a table or YAML.
package diagnostic
