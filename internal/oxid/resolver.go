// Package oxid resolves interface pointer identifiers to the process and
// apartment hosting them.
//
// The Windows stub manager embeds the owning process id and apartment thread
// id inside the IPIDs it allocates, so for system-allocated IPIDs the lookup
// is a decode of the identifier itself plus a liveness check against the
// local process table. The result is advisory display metadata; a reference
// whose exporter is gone still parses and serializes normally.
package oxid

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/kodingen/oleviewdotnet/internal/logger"
	"github.com/kodingen/oleviewdotnet/internal/protocol/dcom"
)

// ProcessResolver implements dcom.Resolver against the local process table.
// The zero value is ready to use.
type ProcessResolver struct{}

var _ dcom.Resolver = ProcessResolver{}

// ResolveInterfacePointer decodes the PID/TID fields of a stub-manager IPID
// and confirms the process still exists. Resolution failure reports absent
// metadata, never an error: the process may legitimately have exited since
// the reference was marshaled.
func (ProcessResolver) ResolveInterfacePointer(ipid dcom.GUID) (dcom.ProcessInfo, bool) {
	pid := ipid.PID()
	tid := ipid.TID()

	// 0 and 0xFFFF never name a real process; IPIDs not allocated by the
	// stub manager carry arbitrary bytes here.
	if pid == 0 || pid == 0xFFFF {
		return dcom.ProcessInfo{}, false
	}

	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		logger.Debug("IPID process lookup failed", "pid", pid, "error", err)
		return dcom.ProcessInfo{}, false
	}

	info := dcom.ProcessInfo{
		ProcessID:     uint32(pid),
		ApartmentID:   uint32(tid),
		ApartmentName: apartmentName(tid),
	}
	// Name lookup can race with process exit; the PID alone is still
	// useful metadata.
	if name, err := proc.Name(); err == nil {
		info.ProcessName = name
	}
	return info, true
}

func apartmentName(tid uint16) string {
	if tid == 0 {
		return "MTA"
	}
	return fmt.Sprintf("STA (thread %d)", tid)
}
