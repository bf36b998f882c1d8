// Command uaparse extracts UserAssist execution history from an NTUSER.DAT
// registry hive and writes it as CSV, JSON or SQLite.
package main

func main() {
	execute()
}
