package mdns

// serviceRecord is one (service-type, port, isSSL) entry the advertiser
// broadcasts a PTR/SRV/TXT/A packet for.
type serviceRecord struct {
	ServiceType string
	Port        int
	IsSSL       bool
}

// servicesToAdvertise selects which service types to broadcast, mirroring
// _broadcast_all_services: _ipp._tcp is always present; the https-backed
// service types only appear when HTTPSAvailable is true, in which case
// the plain (non-SSL) _printer/_universal entries are dropped in favor
// of SSL-pointed ones.
func servicesToAdvertise(info ServiceInfo) []serviceRecord {
	services := []serviceRecord{
		{ServiceType: "_ipp._tcp.local", Port: info.Port, IsSSL: false},
	}
	if info.HTTPSAvailable {
		services = append(services,
			serviceRecord{ServiceType: "_ipps._tcp.local", Port: info.SSLPort, IsSSL: true},
			serviceRecord{ServiceType: "_printer._tcp.local", Port: info.SSLPort, IsSSL: true},
			serviceRecord{ServiceType: "_universal._sub._ipp._tcp.local", Port: info.SSLPort, IsSSL: true},
		)
	} else {
		services = append(services,
			serviceRecord{ServiceType: "_printer._tcp.local", Port: info.Port, IsSSL: false},
			serviceRecord{ServiceType: "_universal._sub._ipp._tcp.local", Port: info.Port, IsSSL: false},
		)
	}
	return services
}

// buildPacket constructs one complete mDNS response packet for a single
// service record: header (0 questions, 3 answers, 0 authority, 1
// additional), PTR, SRV, TXT, then an A record for the host.
func buildPacket(info ServiceInfo, svc serviceRecord) []byte {
	instanceName := info.Name + "." + svc.ServiceType

	var pkt []byte
	pkt = appendUint16(pkt, 0)      // transaction id
	pkt = append(pkt, 0x84, 0x00)   // flags: response, authoritative
	pkt = appendUint16(pkt, 0)      // questions
	pkt = appendUint16(pkt, 3)      // answers
	pkt = appendUint16(pkt, 0)      // authority RRs
	pkt = appendUint16(pkt, 1)      // additional RRs

	ptrData := encodeName(instanceName)
	pkt = append(pkt, createRecord(svc.ServiceType, dnsTypePTR, 120, ptrData)...)

	var srvData []byte
	srvData = appendUint16(srvData, 0) // priority
	srvData = appendUint16(srvData, 0) // weight
	srvData = appendUint16(srvData, uint16(svc.Port))
	srvData = append(srvData, encodeName(info.Hostname+".local")...)
	pkt = append(pkt, createRecord(instanceName, dnsTypeSRV, 120, srvData)...)

	txtData := encodeTXTData(buildTXTPairs(info, svc.IsSSL))
	pkt = append(pkt, createRecord(instanceName, dnsTypeTXT, 120, txtData)...)

	aData := info.IP[:]
	pkt = append(pkt, createRecord(info.Hostname+".local", dnsTypeA, 120, aData)...)

	return pkt
}
