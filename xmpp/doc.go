// Package xmpp sends job results as XMPP chat messages.
//
// One message is sent per result, to a fixed recipient, over a session that
// is opened for the call and closed before Send returns:
//
//	xmpp:
//	  jid: agent@xmpp.example.com/minion
//	  password: secret
//	  recipient: ops@xmpp.example.com
//
// Credentials may also come from a profile, a top-level mapping named by
// xmpp.profile:
//
//	xmpp_profile:
//	  xmpp.jid: agent@xmpp.example.com/minion
//	  xmpp.password: secret
//	xmpp.profile: xmpp_profile
package xmpp
