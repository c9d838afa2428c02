package fengine

//go:generate mockgen -destination mockfengine/mockfengine.go -package mockfengine -write_package_comment=false github.com/casm-project/snapfleet/fengine Fengine,ADC,Eq,Input,Eth,Sync,Correlator,Connector,Dialer,Transport
