package dcom

// =============================================================================
// DUALSTRINGARRAY list elements [MS-DCOM] 2.2.19.2 / 2.2.19.3
// =============================================================================

// TowerProtocol identifies the RPC protocol sequence of a string binding.
// [MS-RPCE] 2.1 lists the protocol tower identifiers.
type TowerProtocol uint16

const (
	// TowerTCP is ncacn_ip_tcp, connection-oriented TCP/IP.
	TowerTCP TowerProtocol = 0x07
	// TowerUDP is ncadg_ip_udp, datagram UDP/IP.
	TowerUDP TowerProtocol = 0x08
	// TowerNamedPipe is ncacn_np, named pipes over SMB.
	TowerNamedPipe TowerProtocol = 0x0F
	// TowerLRPC is ncalrpc, local inter-process communication.
	TowerLRPC TowerProtocol = 0x10
)

func (t TowerProtocol) String() string {
	switch t {
	case TowerTCP:
		return "ncacn_ip_tcp"
	case TowerUDP:
		return "ncadg_ip_udp"
	case TowerNamedPipe:
		return "ncacn_np"
	case TowerLRPC:
		return "ncalrpc"
	default:
		return "unknown"
	}
}

// AuthnService identifies an RPC authentication service (RPC_C_AUTHN_*).
type AuthnService uint16

const (
	AuthnWinNT     AuthnService = 10
	AuthnGSSKerb   AuthnService = 16
	AuthnNegotiate AuthnService = 9
	// AuthnDefault asks the client runtime to pick the default service.
	AuthnDefault AuthnService = 0xFFFF
)

func (a AuthnService) String() string {
	switch a {
	case AuthnWinNT:
		return "NTLM"
	case AuthnGSSKerb:
		return "Kerberos"
	case AuthnNegotiate:
		return "Negotiate"
	case AuthnDefault:
		return "Default"
	default:
		return "unknown"
	}
}

// StringBinding describes one RPC endpoint the exporting object resolver can
// be reached on: a protocol tower id plus a network address such as
// "10.0.0.1" or "host.example.com[135]".
type StringBinding struct {
	TowerProtocol  TowerProtocol
	NetworkAddress string
}

// SecurityBinding describes one authentication option accepted by the
// exporter: an authentication service plus an optional principal name.
type SecurityBinding struct {
	AuthnService  AuthnService
	PrincipalName string
}

// securityReserved is the fixed value of the reserved word following a
// nonzero authentication service. The Windows marshaling layer always emits
// 0xFFFF (COM_C_AUTHZ_NONE) and ignores it on read; we reproduce it exactly.
const securityReserved uint16 = 0xFFFF

// parseStringBindings reads string binding records until the zero-tower
// sentinel. The sentinel terminates the loop and is never returned as an
// entry.
func parseStringBindings(r *reader) ([]StringBinding, error) {
	bindings := []StringBinding{}
	for {
		tower, err := r.uint16("string binding tower id")
		if err != nil {
			return nil, err
		}
		if tower == 0 {
			return bindings, nil
		}
		addr, err := r.stringZ("string binding network address")
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, StringBinding{
			TowerProtocol:  TowerProtocol(tower),
			NetworkAddress: addr,
		})
	}
}

// parseSecurityBindings reads security binding records until the zero
// authentication service sentinel, which is excluded from the result.
func parseSecurityBindings(r *reader) ([]SecurityBinding, error) {
	bindings := []SecurityBinding{}
	for {
		svc, err := r.uint16("security binding authn service")
		if err != nil {
			return nil, err
		}
		if svc == 0 {
			return bindings, nil
		}
		// Reserved word, COM_C_AUTHZ_NONE on the wire. Read and discarded.
		if _, err := r.uint16("security binding reserved"); err != nil {
			return nil, err
		}
		principal, err := r.stringZ("security binding principal name")
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, SecurityBinding{
			AuthnService:  AuthnService(svc),
			PrincipalName: principal,
		})
	}
}

func (b StringBinding) encode(w *writer) {
	w.uint16(uint16(b.TowerProtocol))
	w.stringZ(b.NetworkAddress)
}

func (b SecurityBinding) encode(w *writer) {
	w.uint16(uint16(b.AuthnService))
	w.uint16(securityReserved)
	w.stringZ(b.PrincipalName)
}
