package inventory

import "time"

// defaultComponents is the dataset the store seeds the first time the
// components collection is read.
func defaultComponents() []Component {
	return []Component{
		{ID: "1", Name: "Arduino Uno R3", Category: "Microcontroller", Description: "Open-source microcontroller board", Available: 15, Total: 20, Location: "Shelf A1"},
		{ID: "2", Name: "Raspberry Pi 4", Category: "Single Board Computer", Description: "4GB RAM variant", Available: 8, Total: 12, Location: "Shelf A2"},
		{ID: "3", Name: "Ultrasonic Sensor HC-SR04", Category: "Sensor", Description: "Distance measuring sensor", Available: 25, Total: 30, Location: "Drawer B1"},
		{ID: "4", Name: "PIR Motion Sensor", Category: "Sensor", Description: "Passive infrared motion detector", Available: 12, Total: 15, Location: "Drawer B2"},
		{ID: "5", Name: "L298N Motor Driver", Category: "Motor Controller", Description: "Dual H-bridge motor driver", Available: 18, Total: 25, Location: "Drawer C1"},
		{ID: "6", Name: "ESP32 DevKit", Category: "Microcontroller", Description: "WiFi and Bluetooth enabled MCU", Available: 10, Total: 15, Location: "Shelf A3"},
		{ID: "7", Name: "Servo Motor SG90", Category: "Actuator", Description: "9g micro servo motor", Available: 20, Total: 30, Location: "Drawer C2"},
		{ID: "8", Name: "Breadboard 830 Points", Category: "Prototyping", Description: "Solderless breadboard", Available: 25, Total: 35, Location: "Shelf D1"},
	}
}

// defaultAdmin is the pre-seeded administrator account. Admin logins never
// synthesize a record, so this is the only way the admin comes to exist.
func defaultAdmin() User {
	return User{
		ID:         "admin_001",
		Name:       "Lab Administrator",
		Email:      DefaultAdminEmail,
		Role:       RoleAdmin,
		LastLogin:  time.Now(),
		JoinedDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}
