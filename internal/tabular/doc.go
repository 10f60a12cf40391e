// Package tabular reads and writes the delimited text files exchanged with
// the simulation software and the Norwegian weather services: semicolon
// separated, decimal comma, and either UTF-8 or Windows-1252 encoded.
package tabular
