package backups

import (
	"fmt"
	"log"
	"net"
	"path/filepath"
	"time"
)

// TrySendMetrics reports the outcome of a backup run to the main server
// process via its unix socket listener. Failures are logged and swallowed,
// a backup must not fail just because its numbers could not be delivered.
func TrySendMetrics(beginTimestamp time.Time, sessionsCount int, socketAddrDir, socketFileName string) {
	duration := time.Since(beginTimestamp)

	socketPath := filepath.Join(socketAddrDir, socketFileName)
	conn, err := net.DialTimeout("unix", socketPath, 10*time.Second)
	if err != nil {
		log.Printf("failed to dial backup metrics socket %s: %s", socketPath, err)
		return
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			log.Printf("failed to close backup metrics socket connection: %s", closeErr)
		}
	}()

	if err := conn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		log.Printf("failed to set backup metrics socket deadline: %s", err)
		return
	}

	msg := fmt.Sprintf("sessions-count::%d||duration::%f", sessionsCount, duration.Seconds())
	if _, err := conn.Write([]byte(msg)); err != nil {
		log.Printf("failed to send backup metrics: %s", err)
		return
	}

	reply := make([]byte, 8)
	n, err := conn.Read(reply)
	if err != nil {
		log.Printf("failed to read backup metrics reply: %s", err)
		return
	}

	log.Printf("backup metrics sent, server replied: %s", reply[:n])
}
