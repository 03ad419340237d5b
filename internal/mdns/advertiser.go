package mdns

import (
	"context"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const (
	mdnsIPv4    = "224.0.0.251"
	mdnsPort    = 5353
	initialBurstCount    = 10
	initialBurstInterval = 500 * time.Millisecond
	steadyStateInterval  = 20 * time.Second
	sendRepeat           = 3
	sendRepeatDelay      = 100 * time.Millisecond
)

// Advertiser periodically broadcasts DNS-SD records for one printer over
// raw IPv4 multicast, matching the original's socket setup and timing
// exactly: SO_REUSEADDR + IP_ADD_MEMBERSHIP + multicast loopback enabled,
// three sends per broadcast with a short delay between the first two.
type Advertiser struct {
	conn *net.UDPConn
	svc  ServiceInfo
	log  zerolog.Logger
}

// NewAdvertiser opens the multicast socket used for all subsequent
// broadcasts. The socket is configured the way a raw Python socket would
// be: reuse-addr, join the 224.0.0.251 group on the interface the kernel
// picks for INADDR_ANY, and
// keep multicast loopback enabled so a same-host test client can see it.
func NewAdvertiser(svc ServiceInfo, log zerolog.Logger) (*Advertiser, error) {
	conn, err := openMulticastSocket()
	if err != nil {
		return nil, err
	}
	return &Advertiser{conn: conn, svc: svc, log: log.With().Str("component", "mdns").Logger()}, nil
}

func openMulticastSocket() (*net.UDPConn, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_UDP)
	if err != nil {
		return nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_BROADCAST, 1); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.SetsockoptByte(fd, unix.IPPROTO_IP, unix.IP_MULTICAST_TTL, 255); err != nil {
		unix.Close(fd)
		return nil, err
	}
	if err := unix.SetsockoptByte(fd, unix.IPPROTO_IP, unix.IP_MULTICAST_LOOP, 1); err != nil {
		unix.Close(fd)
		return nil, err
	}

	mreq := &unix.IPMreq{Multiaddr: [4]byte{224, 0, 0, 251}}
	if err := unix.SetsockoptIPMreq(fd, unix.IPPROTO_IP, unix.IP_ADD_MEMBERSHIP, mreq); err != nil {
		unix.Close(fd)
		return nil, err
	}

	sa := &unix.SockaddrInet4{Port: mdnsPort}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, err
	}

	file := os.NewFile(uintptr(fd), "mdns-multicast")
	conn, err := net.FilePacketConn(file)
	file.Close()
	if err != nil {
		return nil, err
	}
	return conn.(*net.UDPConn), nil
}

// Run broadcasts all configured service records on a schedule: ten
// bursts half a second apart, then one burst every twenty seconds,
// until ctx is canceled. A send error is logged by send and the schedule
// carries on unchanged; there is no backoff.
func (a *Advertiser) Run(ctx context.Context) {
	cycle := 0
	for burst := 0; burst < initialBurstCount; burst++ {
		if ctx.Err() != nil {
			return
		}
		a.broadcastAll()
		cycle++
		if !sleepOrDone(ctx, initialBurstInterval) {
			return
		}
	}

	for {
		if !waitOneSecondAtATime(ctx, steadyStateInterval) {
			return
		}
		a.broadcastAll()
		cycle++
		if cycle%10 == 0 {
			a.log.Debug().Int("cycle", cycle).Msg("mdns broadcast cycle")
		}
	}
}

// waitOneSecondAtATime sleeps up to d in one-second increments so
// cancellation is noticed promptly, matching the original's responsive
// shutdown check inside its sleep loop.
func waitOneSecondAtATime(ctx context.Context, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Second):
		}
	}
	return true
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func (a *Advertiser) broadcastAll() {
	for _, svc := range servicesToAdvertise(a.svc) {
		pkt := buildPacket(a.svc, svc)
		a.send(pkt)
	}
}

// send transmits one packet three times to the multicast group, with a
// short delay between the first two sends and none after the third,
// matching _broadcast_service's retry shape (mDNS is UDP: repeating the
// announcement compensates for lost packets without requiring acks).
func (a *Advertiser) send(pkt []byte) {
	dst := &net.UDPAddr{IP: net.ParseIP(mdnsIPv4), Port: mdnsPort}
	for i := 0; i < sendRepeat; i++ {
		if _, err := a.conn.WriteToUDP(pkt, dst); err != nil {
			a.log.Warn().Err(err).Msg("mdns send failed")
		}
		if i < sendRepeat-2 {
			time.Sleep(sendRepeatDelay)
		}
	}
}

// Close releases the multicast socket.
func (a *Advertiser) Close() error {
	return a.conn.Close()
}
