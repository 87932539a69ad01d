package models

// NetworkStatus is the connectivity state exposed by the network monitor.
//
// Три состояния машины отображаются так:
//
//	ONLINE       -> {IsOnline: true,  IsConnecting: false}
//	OFFLINE      -> {IsOnline: false, IsConnecting: false}
//	RECONNECTING -> {IsOnline: false, IsConnecting: true}
//
// RECONNECTING держится в течение settle-окна после восстановления связи,
// чтобы кратковременный flap не запускал синхронизацию.
type NetworkStatus struct {
	IsOnline     bool `json:"is_online"`
	IsConnecting bool `json:"is_connecting"`
}

// Online reports whether the client may talk to the remote store right now.
func (s NetworkStatus) Online() bool {
	return s.IsOnline && !s.IsConnecting
}
