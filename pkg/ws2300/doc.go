// Package ws2300 reads measurements from a La Crosse WS2300-family weather
// station over its serial request/response protocol.
//
// Every read resets the station, sends a five byte address/length request
// whose bytes the station echoes one by one, then receives the payload and an
// 8-bit sum. The link is half duplex and noisy, so whole transactions are
// retried. Payload bytes hold packed decimal nibbles which the Decode*
// functions turn into physical units.
package ws2300
