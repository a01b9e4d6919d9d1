package backups

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/repslog/server/internal/telemetry/metrics"
	"github.com/repslog/server/pkg"

	log "github.com/sirupsen/logrus"
)

// UnixSocketListenerSetup listens for reports from the sessions backup
// job. The backup job runs as a separate process (cron), and reports
// its result over a unix socket so the main service can expose the
// backup metrics without a prometheus push gateway.
func UnixSocketListenerSetup(
	ctx context.Context,
	socketAddrDir, socketFileName string,
	instr *metrics.Manager,
) (net.Addr, error) {
	socket := filepath.Join(socketAddrDir, socketFileName)
	listener, err := net.Listen("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("binding to unix socket %s: %w", socket, err)
	}

	if err := os.Chmod(socket, os.ModeSocket|0666); err != nil {
		return nil, err
	}

	go func() {
		go func() {
			<-ctx.Done()
			log.Debugln("sessions backup unix socket listener context done, closing listener")
			_ = listener.Close()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			default:
				// Otherwise, continue accepting new connections.
			}

			conn, err := listener.Accept()
			if err != nil {
				log.Errorf("sessions backup unix socket listener conn accept: %s", err)
				return
			}
			log.Debugf("sessions backup unix socket got new conn: %s", conn.RemoteAddr().String())

			// a backup report is a single short message, a minute is plenty
			if err := conn.SetDeadline(time.Now().Add(time.Minute)); err != nil {
				log.Errorf("failed to set conn timeout: %s", err)
				return
			}

			go func() {
				defer func() { _ = conn.Close() }()

				buf := make([]byte, 1024)
				n, err := conn.Read(buf)
				if err != nil {
					return
				}

				messageReceived := pkg.BytesToString(buf[:n])
				log.Infof("sessions backup unix socket received: %s", messageReceived)

				msgParts := strings.Split(messageReceived, "||")
				if len(msgParts) != 2 {
					log.Errorf("sessions backup conn, invalid message received: %s", messageReceived)
					return
				}

				durationInfo := msgParts[1]
				sendBackupDurationInfo(durationInfo, instr)

				sessionsCountInfo := msgParts[0]
				sendBackupSessionsCount(sessionsCountInfo, instr)

				_, err = conn.Write([]byte("ok"))
				if err != nil {
					log.Errorf("sessions backup conn, send response: %s", err)
				}
			}()
		}
	}()

	return listener.Addr(), nil
}

func sendBackupDurationInfo(durationInfoMsg string, metrics *metrics.Manager) {
	durationInfoParts := strings.Split(durationInfoMsg, "::")
	if len(durationInfoParts) != 2 {
		log.Errorf("sessions backup conn, invalid duration info received: %s", durationInfoMsg)
		return
	}

	durationInSec, err := strconv.ParseFloat(durationInfoParts[1], 64)
	if err != nil {
		log.Errorf("sessions backup conn, invalid duration info received: %s", err)
		return
	}

	metrics.HistBackupDuration.Observe(durationInSec)
}

func sendBackupSessionsCount(sessionsCountInfoMsg string, metrics *metrics.Manager) {
	sessionsCountInfoParts := strings.Split(sessionsCountInfoMsg, "::")
	if len(sessionsCountInfoParts) != 2 {
		log.Errorf("sessions backup conn, invalid sessions info received: %s", sessionsCountInfoMsg)
		return
	}

	sessionsCount, err := strconv.Atoi(sessionsCountInfoParts[1])
	if err != nil {
		log.Errorf("sessions backup conn, invalid sessions counter: %s", err)
		return
	}

	metrics.CounterSessionsBackups.Add(float64(sessionsCount))
}
