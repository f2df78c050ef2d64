package config

type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
	Rooms  []RoomSeed
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	rooms, err := LoadRooms(serverCfg.RoomsConfigPath)
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
		Rooms:  rooms,
	}, nil
}
