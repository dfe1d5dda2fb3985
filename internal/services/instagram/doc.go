// Package instagram publishes record posts through the Instagram Graph API
// using the container plus media_publish flow.
package instagram
