// Package notify renders the digest email (plain text plus an HTML
// alternative) from group results and sends it over SMTP.
package notify
